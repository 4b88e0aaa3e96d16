// Package embedding turns text into dense vectors for similarity search.
package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/janhq/qa-api/internal/config"
)

// ErrDimensionMismatch is returned when a backend answers with a different
// number of vectors than texts were sent.
var ErrDimensionMismatch = errors.New("embedding count does not match input count")

// Embedder embeds a batch of texts, preserving order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbedOne embeds a single text.
func EmbedOne(ctx context.Context, e Embedder, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: got %d for 1", ErrDimensionMismatch, len(vectors))
	}
	return vectors[0], nil
}

// Load builds the configured embedder wrapped in the configured cache.
func Load(cfg *config.Config, log zerolog.Logger) (Embedder, error) {
	var backend Embedder
	switch cfg.EmbeddingBackend {
	case config.EmbeddingOpenAI:
		backend = NewOpenAIEmbedder(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel)
	case config.EmbeddingTEI:
		backend = NewTEIEmbedder(cfg.EmbeddingBaseURL)
	default:
		return nil, fmt.Errorf("unknown embedding backend %q", cfg.EmbeddingBackend)
	}

	cache, err := NewCache(CacheConfig{
		Type:      cfg.EmbeddingCache,
		RedisURL:  cfg.RedisURL,
		KeyPrefix: "qa-api:embedding:",
		MaxSize:   cfg.EmbeddingCacheSize,
		TTL:       cfg.EmbeddingCacheTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize embedding cache: %w", err)
	}

	log.Info().
		Str("backend", cfg.EmbeddingBackend).
		Str("model", cfg.EmbeddingModel).
		Str("cache", cfg.EmbeddingCache).
		Msg("embedding client ready")
	return NewCachedEmbedder(backend, cache, cfg.EmbeddingModel, cfg.EmbeddingCache), nil
}
