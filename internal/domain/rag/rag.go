// Package rag defines the retrieval-augmented answer chain and the
// collaborator contracts it is built from.
package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCollaborator marks a failed retriever or LLM call.
	ErrCollaborator = errors.New("answer collaborator failed")
	// ErrTimeout marks a collaborator call that exceeded its deadline.
	ErrTimeout = errors.New("answer collaborator timed out")
)

// Document is a retrieved chunk and its metadata.
type Document struct {
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Retriever returns the documents most relevant to query.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]Document, error)
}

// LLM completes a single prompt.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Result is an answer together with the documents it was grounded on.
type Result struct {
	Answer          string
	SourceDocuments []Document
}

// DefaultPromptTemplate receives the joined context and the question, in that order.
const DefaultPromptTemplate = `Use the following pieces of context to answer the question at the end.
If you don't know the answer, just say that you don't know, don't try to make up an answer.

%s

Question: %s
Helpful Answer:`

// AnswerChain stuffs every retrieved document into one prompt.
type AnswerChain struct {
	llm             LLM
	retriever       Retriever
	promptTemplate  string
	maxContextRunes int
}

// Option customises an AnswerChain.
type Option func(*AnswerChain)

// WithPromptTemplate replaces DefaultPromptTemplate. The template must hold
// two %s verbs: context first, question second.
func WithPromptTemplate(tmpl string) Option {
	return func(c *AnswerChain) {
		if strings.TrimSpace(tmpl) != "" {
			c.promptTemplate = tmpl
		}
	}
}

// WithMaxContextRunes caps the stuffed context; zero means unlimited.
func WithMaxContextRunes(n int) Option {
	return func(c *AnswerChain) {
		c.maxContextRunes = n
	}
}

// BuildAnswerChain assembles the chain from its collaborators.
func BuildAnswerChain(llm LLM, retriever Retriever, opts ...Option) *AnswerChain {
	chain := &AnswerChain{
		llm:            llm,
		retriever:      retriever,
		promptTemplate: DefaultPromptTemplate,
	}
	for _, opt := range opts {
		opt(chain)
	}
	return chain
}

// Invoke retrieves context for question and asks the LLM to answer it.
// Errors wrap ErrCollaborator, or ErrTimeout when ctx expired.
func (c *AnswerChain) Invoke(ctx context.Context, question string) (Result, error) {
	if c.llm == nil || c.retriever == nil {
		return Result{}, fmt.Errorf("%w: answer chain is not configured", ErrCollaborator)
	}

	docs, err := c.retriever.Retrieve(ctx, question)
	if err != nil {
		return Result{}, classify(ctx, "retrieve documents", err)
	}

	answer, err := c.llm.Generate(ctx, c.Prompt(question, docs))
	if err != nil {
		return Result{}, classify(ctx, "generate answer", err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return Result{}, fmt.Errorf("%w: empty answer", ErrCollaborator)
	}
	return Result{Answer: answer, SourceDocuments: docs}, nil
}

// Prompt renders the stuffed prompt for question over docs.
func (c *AnswerChain) Prompt(question string, docs []Document) string {
	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		if text := strings.TrimSpace(doc.Text); text != "" {
			parts = append(parts, text)
		}
	}
	joined := strings.Join(parts, "\n\n")
	if c.maxContextRunes > 0 {
		if runes := []rune(joined); len(runes) > c.maxContextRunes {
			joined = string(runes[:c.maxContextRunes])
		}
	}
	return fmt.Sprintf(c.promptTemplate, joined, question)
}

// SourceOf reads key from the document metadata, falling back to fallback
// when the key is absent or empty.
func SourceOf(doc Document, key, fallback string) string {
	if doc.Metadata == nil {
		return fallback
	}
	value, ok := doc.Metadata[key]
	if !ok || value == nil {
		return fallback
	}
	s := strings.TrimSpace(fmt.Sprint(value))
	if s == "" {
		return fallback
	}
	return s
}

func classify(ctx context.Context, step string, err error) error {
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", ErrTimeout, step, err)
	}
	if errors.Is(err, ErrCollaborator) {
		return fmt.Errorf("%s: %w", step, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrCollaborator, step, err)
}
