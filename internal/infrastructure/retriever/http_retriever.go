package retriever

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/janhq/qa-api/internal/domain/rag"
)

// HTTPRetriever delegates search to a vector-store service.
type HTTPRetriever struct {
	httpClient     *resty.Client
	collection     string
	embeddingModel string
	topK           int
}

type queryRequest struct {
	Text           string `json:"text"`
	TopK           int    `json:"top_k"`
	Collection     string `json:"collection"`
	EmbeddingModel string `json:"embedding_model,omitempty"`
}

type queryResult struct {
	Text        string         `json:"text"`
	TextPreview string         `json:"text_preview"`
	Score       float64        `json:"score"`
	Metadata    map[string]any `json:"metadata"`
}

type queryResponse struct {
	Results []queryResult `json:"results"`
}

func NewHTTPRetriever(baseURL, collection, embeddingModel string, topK int) *HTTPRetriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &HTTPRetriever{
		httpClient: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("User-Agent", "Jan-QA-API/1.0").
			SetTimeout(30 * time.Second),
		collection:     collection,
		embeddingModel: embeddingModel,
		topK:           topK,
	}
}

func (r *HTTPRetriever) Retrieve(ctx context.Context, query string) ([]rag.Document, error) {
	var resp queryResponse
	httpResp, err := r.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(queryRequest{
			Text:           query,
			TopK:           r.topK,
			Collection:     r.collection,
			EmbeddingModel: r.embeddingModel,
		}).
		SetResult(&resp).
		Post("/query")
	if err != nil {
		return nil, fmt.Errorf("vector store query request failed: %w", err)
	}
	if httpResp.IsError() {
		return nil, fmt.Errorf("vector store query error (%d): %s", httpResp.StatusCode(), httpResp.String())
	}

	docs := make([]rag.Document, 0, len(resp.Results))
	for _, result := range resp.Results {
		text := result.Text
		if text == "" {
			text = result.TextPreview
		}
		docs = append(docs, rag.Document{Text: text, Metadata: result.Metadata})
	}
	return docs, nil
}
