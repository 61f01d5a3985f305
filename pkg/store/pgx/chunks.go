package pgx

import (
	"context"
	"fmt"

	"github.com/docugraph/backend/pkg/common"
	"github.com/docugraph/backend/pkg/logger"
	"github.com/docugraph/backend/pkg/store"

	"github.com/pgvector/pgvector-go"
)

// SaveChunks persists document chunks together with their embeddings.
// Chunks are written in batches inside a transaction per batch; embeddings
// must be index-aligned with chunks.
func (s *GraphDBStorage) SaveChunks(
	ctx context.Context,
	chunks []common.Chunk,
	embeddings [][]float32,
) error {
	if len(chunks) == 0 {
		return nil
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("chunk/embedding count mismatch: %d != %d", len(chunks), len(embeddings))
	}

	logger.Debug("[Store][SaveChunks] Persisting chunks", "chunks", len(chunks))

	return store.ChunkRange(len(chunks), 500, func(start, end int) error {
		tx, err := s.conn.Begin(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin chunk transaction: %w", err)
		}
		defer tx.Rollback(ctx)

		for i := start; i < end; i++ {
			c := chunks[i]
			_, err := tx.Exec(ctx, `
				INSERT INTO chunks (id, document_id, chunk_index, text, embedding)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (id) DO UPDATE SET
					text = EXCLUDED.text,
					embedding = EXCLUDED.embedding
			`, c.ID, c.DocumentID, c.Index, c.Text, pgvector.NewVector(embeddings[i]))
			if err != nil {
				return fmt.Errorf("failed to upsert chunk: %w", err)
			}
		}

		return tx.Commit(ctx)
	})
}

// SearchChunks runs nearest-neighbor search over the chunks of one document
// using cosine distance. Scores are similarities in [0, 1], higher is closer.
func (s *GraphDBStorage) SearchChunks(
	ctx context.Context,
	documentID int64,
	embedding []float32,
	limit int,
) ([]common.ScoredChunk, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT id, document_id, chunk_index, text, embedding <=> $2 AS distance
		FROM chunks
		WHERE document_id = $1
		ORDER BY distance
		LIMIT $3
	`, documentID, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}
	defer rows.Close()

	results := make([]common.ScoredChunk, 0, limit)
	for rows.Next() {
		var sc common.ScoredChunk
		var distance float64
		if err := rows.Scan(&sc.ID, &sc.DocumentID, &sc.Index, &sc.Text, &distance); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		sc.Score = 1 - distance
		results = append(results, sc)
	}
	return results, rows.Err()
}
