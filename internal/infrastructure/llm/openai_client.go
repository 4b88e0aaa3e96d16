package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/janhq/qa-api/internal/config"
	"github.com/janhq/qa-api/internal/domain/rag"
	"github.com/janhq/qa-api/internal/infrastructure/metrics"
)

// ErrEmptyCompletion is returned when the server answers without choices.
var ErrEmptyCompletion = errors.New("llm returned no choices")

// Config points the client at an OpenAI-compatible chat completions API.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
}

// OpenAIClient completes prompts through the chat completions endpoint of
// any OpenAI-compatible server (OpenAI, Ollama, vLLM).
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	log         zerolog.Logger
}

var _ rag.LLM = (*OpenAIClient)(nil)

func NewOpenAIClient(cfg Config, log zerolog.Logger) *OpenAIClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if base := strings.TrimRight(cfg.BaseURL, "/"); base != "" {
		clientCfg.BaseURL = base
	}
	return &OpenAIClient{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		log:         log.With().Str("component", "llm-client").Str("model", cfg.Model).Logger(),
	}
}

// Load returns the configured LLM, or nil when LLM_ENABLED is false.
func Load(cfg *config.Config, log zerolog.Logger) rag.LLM {
	if !cfg.LLMEnabled {
		log.Info().Msg("llm disabled; answers and generated titles are unavailable")
		return nil
	}
	return NewOpenAIClient(Config{
		BaseURL:     cfg.LLMBaseURL,
		APIKey:      cfg.LLMAPIKey,
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
		MaxTokens:   cfg.LLMMaxTokens,
	}, log)
}

// Generate sends prompt as a single user message and returns the first choice.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	content, err := c.complete(ctx, prompt)
	metrics.RecordCollaborator("llm", err, time.Since(start).Seconds())
	if err != nil {
		c.log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("chat completion failed")
		return "", err
	}
	c.log.Debug().Dur("elapsed", time.Since(start)).Msg("chat completion finished")
	return content, nil
}

func (c *OpenAIClient) complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
	}
	if c.maxTokens > 0 {
		req.MaxTokens = c.maxTokens
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
