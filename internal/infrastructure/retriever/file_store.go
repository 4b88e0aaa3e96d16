package retriever

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/janhq/qa-api/internal/domain/rag"
	"github.com/janhq/qa-api/internal/infrastructure/embedding"
)

type storedDocument struct {
	Text      string         `json:"text"`
	Metadata  map[string]any `json:"metadata"`
	Embedding []float32      `json:"embedding"`
}

type storeFile struct {
	Collections map[string][]storedDocument `json:"collections"`
}

// FileStore keeps one collection of pre-embedded documents in memory and
// ranks them by cosine similarity.
type FileStore struct {
	docs     []storedDocument
	embedder embedding.Embedder
	topK     int
}

// OpenFileStore reads collection from the JSON document store at path.
func OpenFileStore(path, collection string, embedder embedding.Embedder, topK int) (*FileStore, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document store: %w", err)
	}
	var file storeFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse document store %s: %w", path, err)
	}
	docs, ok := file.Collections[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrUnknownCollection, collection, path)
	}
	return newFileStore(docs, embedder, topK), nil
}

func newFileStore(docs []storedDocument, embedder embedding.Embedder, topK int) *FileStore {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &FileStore{docs: docs, embedder: embedder, topK: topK}
}

func (s *FileStore) Retrieve(ctx context.Context, query string) ([]rag.Document, error) {
	if len(s.docs) == 0 {
		return []rag.Document{}, nil
	}
	vector, err := embedding.EmbedOne(ctx, s.embedder, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, 0, len(s.docs))
	for i, doc := range s.docs {
		if len(doc.Embedding) != len(vector) {
			continue
		}
		ranked = append(ranked, scored{idx: i, score: cosine(vector, doc.Embedding)})
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].score > ranked[b].score })
	if len(ranked) > s.topK {
		ranked = ranked[:s.topK]
	}

	out := make([]rag.Document, 0, len(ranked))
	for _, r := range ranked {
		doc := s.docs[r.idx]
		out = append(out, rag.Document{Text: doc.Text, Metadata: doc.Metadata})
	}
	return out, nil
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
