package embedding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/janhq/qa-api/internal/infrastructure/metrics"
)

// TEIEmbedder talks to a Hugging Face text-embeddings-inference server.
type TEIEmbedder struct {
	httpClient *resty.Client
}

type teiRequest struct {
	Inputs    []string `json:"inputs"`
	Normalize bool     `json:"normalize"`
	Truncate  bool     `json:"truncate"`
}

func NewTEIEmbedder(baseURL string) *TEIEmbedder {
	return &TEIEmbedder{
		httpClient: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("User-Agent", "Jan-QA-API/1.0").
			SetTimeout(30 * time.Second),
	}
}

func (e *TEIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	start := time.Now()
	vectors, err := e.embed(ctx, texts)
	metrics.RecordCollaborator("embedding", err, time.Since(start).Seconds())
	return vectors, err
}

func (e *TEIEmbedder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	var vectors [][]float32
	resp, err := e.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(teiRequest{Inputs: texts, Normalize: true, Truncate: true}).
		SetResult(&vectors).
		Post("/embed")
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("embedding service error (%d): %s", resp.StatusCode(), resp.String())
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: got %d for %d", ErrDimensionMismatch, len(vectors), len(texts))
	}
	return vectors, nil
}
