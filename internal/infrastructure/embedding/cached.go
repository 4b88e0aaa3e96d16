package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/janhq/qa-api/internal/infrastructure/metrics"
)

// CachedEmbedder serves repeated texts from a Cache and only sends misses
// to the backend.
type CachedEmbedder struct {
	backend   Embedder
	cache     Cache
	model     string
	cacheName string
}

func NewCachedEmbedder(backend Embedder, cache Cache, model, cacheName string) *CachedEmbedder {
	if cache == nil {
		cache = NoopCache{}
	}
	return &CachedEmbedder{backend: backend, cache: cache, model: model, cacheName: cacheName}
}

func (e *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	var (
		missIdx   []int
		missTexts []string
	)
	for i, text := range texts {
		if cached, ok := e.cache.Get(ctx, e.key(text)); ok {
			results[i] = cached
			metrics.RecordEmbeddingCache(e.cacheName, true)
			continue
		}
		metrics.RecordEmbeddingCache(e.cacheName, false)
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}
	if len(missTexts) == 0 {
		return results, nil
	}

	fresh, err := e.backend.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missTexts) {
		return nil, fmt.Errorf("%w: got %d for %d", ErrDimensionMismatch, len(fresh), len(missTexts))
	}
	for i, idx := range missIdx {
		results[idx] = fresh[i]
		e.cache.Set(ctx, e.key(missTexts[i]), fresh[i])
	}
	return results, nil
}

// key is scoped by model.
func (e *CachedEmbedder) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return e.model + ":" + hex.EncodeToString(sum[:])
}
