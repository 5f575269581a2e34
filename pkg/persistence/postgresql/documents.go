package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/graphline/graphline/pkg/models"
	"github.com/graphline/graphline/pkg/protocol"
)

// DocumentSearcher performs cosine-similarity search over the documents
// table via pgvector.
type DocumentSearcher struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewDocumentSearcher creates a document searcher over an existing
// connection pool.
func NewDocumentSearcher(db *sql.DB, logger *slog.Logger) *DocumentSearcher {
	return &DocumentSearcher{db: db, logger: logger}
}

// SearchDocuments returns documents in the collection ordered by descending
// similarity to the query embedding, dropping rows below the floor.
func (ds *DocumentSearcher) SearchDocuments(ctx context.Context, query protocol.DocumentQuery) ([]*models.Document, error) {
	stmt := `
		SELECT id, collection, title, content, metadata, embedding::text,
			   1 - (embedding <=> $1::vector) AS similarity
		FROM documents
		WHERE collection = $2
		  AND 1 - (embedding <=> $1::vector) >= $3
		ORDER BY similarity DESC
		LIMIT $4
	`

	rows, err := ds.db.QueryContext(ctx, stmt,
		encodeVector(query.Embedding),
		query.Collection,
		query.MinSimilarity,
		query.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search documents: %w", err)
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			ds.logger.ErrorContext(ctx, "failed to close rows", "error", closeErr)
		}
	}()

	documents := make([]*models.Document, 0)

	for rows.Next() {
		var (
			doc          models.Document
			metadataJSON []byte
			embeddingRaw string
		)

		err := rows.Scan(&doc.ID, &doc.Collection, &doc.Title, &doc.Content,
			&metadataJSON, &embeddingRaw, &doc.Similarity)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &doc.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode document metadata: %w", err)
			}
		}

		doc.Embedding, err = decodeVector(embeddingRaw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode document embedding: %w", err)
		}

		documents = append(documents, &doc)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}

	return documents, nil
}

// encodeVector renders an embedding in pgvector's text format: [x,y,z].
func encodeVector(embedding []float64) string {
	parts := make([]string, len(embedding))
	for i, v := range embedding {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}

	return "[" + strings.Join(parts, ",") + "]"
}

// decodeVector parses pgvector's text format back into a float slice.
func decodeVector(raw string) ([]float64, error) {
	trimmed := strings.Trim(strings.TrimSpace(raw), "[]")
	if trimmed == "" {
		return []float64{}, nil
	}

	parts := strings.Split(trimmed, ",")
	embedding := make([]float64, len(parts))

	for i, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid vector component %q: %w", part, err)
		}

		embedding[i] = value
	}

	return embedding, nil
}

var _ protocol.DocumentSearcher = (*DocumentSearcher)(nil)
