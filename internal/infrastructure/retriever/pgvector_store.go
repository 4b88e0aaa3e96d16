package retriever

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/janhq/qa-api/internal/domain/rag"
	"github.com/janhq/qa-api/internal/infrastructure/embedding"
)

const searchQuery = `
	SELECT text, metadata
	FROM rag_documents
	WHERE collection = $1
	ORDER BY embedding <=> $2::vector
	LIMIT $3`

// PGVectorStore searches the rag_documents table of a pgvector database.
type PGVectorStore struct {
	pool       *pgxpool.Pool
	collection string
	embedder   embedding.Embedder
	topK       int
}

func OpenPGVectorStore(ctx context.Context, dsn, collection string, embedder embedding.Embedder, topK int) (*PGVectorStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect vector database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping vector database: %w", err)
	}
	return &PGVectorStore{pool: pool, collection: collection, embedder: embedder, topK: topK}, nil
}

func (s *PGVectorStore) Retrieve(ctx context.Context, query string) ([]rag.Document, error) {
	vector, err := embedding.EmbedOne(ctx, s.embedder, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rows, err := s.pool.Query(ctx, searchQuery, s.collection, vectorLiteral(vector), s.topK)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	defer rows.Close()

	docs := []rag.Document{}
	for rows.Next() {
		var (
			text     string
			metadata []byte
		)
		if err := rows.Scan(&text, &metadata); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		doc := rag.Document{Text: text}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &doc.Metadata); err != nil {
				return nil, fmt.Errorf("decode document metadata: %w", err)
			}
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

func (s *PGVectorStore) Close() {
	s.pool.Close()
}

// vectorLiteral renders v in pgvector's text input format.
func vectorLiteral(v []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
