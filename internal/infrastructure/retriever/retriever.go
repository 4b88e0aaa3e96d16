// Package retriever provides the document stores the answer chain searches.
package retriever

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/qa-api/internal/config"
	"github.com/janhq/qa-api/internal/domain/rag"
	"github.com/janhq/qa-api/internal/infrastructure/embedding"
	"github.com/janhq/qa-api/internal/infrastructure/metrics"
)

// DefaultTopK is used when Config.TopK is not positive.
const DefaultTopK = 4

// ErrUnknownCollection is returned when the store has no such collection.
var ErrUnknownCollection = errors.New("unknown collection")

// Config selects and parameterises a retriever backend.
type Config struct {
	Backend        string
	CollectionName string
	// StorePath is a JSON file for the file backend and a DSN for pgvector.
	StorePath      string
	ServiceURL     string
	EmbeddingModel string
	TopK           int
}

// ConfigFrom extracts the retriever settings from the service config.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		Backend:        cfg.RetrieverBackend,
		CollectionName: cfg.CollectionName,
		StorePath:      cfg.VectorStorePath,
		ServiceURL:     cfg.VectorServiceURL,
		EmbeddingModel: cfg.EmbeddingModel,
		TopK:           cfg.RetrievalTopK,
	}
}

// Load opens the configured backend. The returned cleanup releases its
// resources and is never nil.
func Load(ctx context.Context, cfg Config, embedder embedding.Embedder, log zerolog.Logger) (rag.Retriever, func(), error) {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	log = log.With().Str("component", "retriever").Str("backend", cfg.Backend).Str("collection", cfg.CollectionName).Logger()

	var (
		r       rag.Retriever
		cleanup = func() {}
		err     error
	)
	switch cfg.Backend {
	case config.RetrieverFile:
		r, err = OpenFileStore(cfg.StorePath, cfg.CollectionName, embedder, cfg.TopK)
	case config.RetrieverPGVector:
		var store *PGVectorStore
		store, err = OpenPGVectorStore(ctx, cfg.StorePath, cfg.CollectionName, embedder, cfg.TopK)
		if err == nil {
			r, cleanup = store, store.Close
		}
	case config.RetrieverHTTP:
		r = NewHTTPRetriever(cfg.ServiceURL, cfg.CollectionName, cfg.EmbeddingModel, cfg.TopK)
	default:
		err = fmt.Errorf("unknown retriever backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, func() {}, err
	}

	log.Info().Int("top_k", cfg.TopK).Msg("retriever ready")
	return instrumented{next: r}, cleanup, nil
}

type instrumented struct {
	next rag.Retriever
}

func (i instrumented) Retrieve(ctx context.Context, query string) ([]rag.Document, error) {
	start := time.Now()
	docs, err := i.next.Retrieve(ctx, query)
	metrics.RecordCollaborator("retriever", err, time.Since(start).Seconds())
	return docs, err
}
