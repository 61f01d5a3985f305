package pgx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/docugraph/backend/pkg/common"

	pgxv5 "github.com/jackc/pgx/v5"
)

// CreateDocument inserts a new document record in "processing" state and
// returns it with the assigned identifier and upload timestamp.
func (s *GraphDBStorage) CreateDocument(ctx context.Context, doc common.Document) (common.Document, error) {
	row := s.conn.QueryRow(ctx, `
		INSERT INTO documents (filename, file_type, file_size, storage_key, status, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, uploaded_at
	`, doc.Filename, doc.FileType, doc.FileSize, doc.StorageKey, common.DocumentStatusProcessing, doc.UserID)

	if err := row.Scan(&doc.ID, &doc.UploadedAt); err != nil {
		return common.Document{}, fmt.Errorf("failed to insert document: %w", err)
	}
	doc.Status = common.DocumentStatusProcessing
	return doc, nil
}

// GetDocument returns the document by id, scoped to the owning user.
// Returns (nil, nil) when no such document exists.
func (s *GraphDBStorage) GetDocument(ctx context.Context, documentID int64, userID int64) (*common.Document, error) {
	row := s.conn.QueryRow(ctx, `
		SELECT id, filename, file_type, file_size, storage_key, chunk_count,
			status, COALESCE(error_message, ''), user_id, uploaded_at, processed_at
		FROM documents
		WHERE id = $1 AND user_id = $2
	`, documentID, userID)

	var d common.Document
	err := row.Scan(&d.ID, &d.Filename, &d.FileType, &d.FileSize, &d.StorageKey,
		&d.ChunkCount, &d.Status, &d.ErrorMessage, &d.UserID, &d.UploadedAt, &d.ProcessedAt)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &d, nil
}

// ListDocuments returns all documents of the user, newest first.
func (s *GraphDBStorage) ListDocuments(ctx context.Context, userID int64) ([]common.Document, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT id, filename, file_type, file_size, storage_key, chunk_count,
			status, COALESCE(error_message, ''), user_id, uploaded_at, processed_at
		FROM documents
		WHERE user_id = $1
		ORDER BY uploaded_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return scanDocuments(rows)
}

// ListCompletedDocuments returns the user's documents in "completed" state,
// optionally restricted to the given document IDs. Only these documents
// participate in querying.
func (s *GraphDBStorage) ListCompletedDocuments(
	ctx context.Context,
	userID int64,
	documentIDs []int64,
) ([]common.Document, error) {
	query := `
		SELECT id, filename, file_type, file_size, storage_key, chunk_count,
			status, COALESCE(error_message, ''), user_id, uploaded_at, processed_at
		FROM documents
		WHERE user_id = $1 AND status = $2
		ORDER BY id`
	args := []any{userID, common.DocumentStatusCompleted}

	if len(documentIDs) > 0 {
		query = `
		SELECT id, filename, file_type, file_size, storage_key, chunk_count,
			status, COALESCE(error_message, ''), user_id, uploaded_at, processed_at
		FROM documents
		WHERE user_id = $1 AND status = $2 AND id = ANY($3)
		ORDER BY id`
		args = append(args, documentIDs)
	}

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed documents: %w", err)
	}
	return scanDocuments(rows)
}

// MarkDocumentCompleted transitions a document to "completed", recording the
// chunk count and processing timestamp.
func (s *GraphDBStorage) MarkDocumentCompleted(ctx context.Context, documentID int64, chunkCount int) error {
	_, err := s.conn.Exec(ctx, `
		UPDATE documents
		SET status = $2, chunk_count = $3, error_message = NULL, processed_at = $4
		WHERE id = $1
	`, documentID, common.DocumentStatusCompleted, chunkCount, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to mark document completed: %w", err)
	}
	return nil
}

// MarkDocumentFailed transitions a document to "failed" with the error
// message that stopped ingestion.
func (s *GraphDBStorage) MarkDocumentFailed(ctx context.Context, documentID int64, message string) error {
	_, err := s.conn.Exec(ctx, `
		UPDATE documents
		SET status = $2, error_message = $3, processed_at = $4
		WHERE id = $1
	`, documentID, common.DocumentStatusFailed, message, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to mark document failed: %w", err)
	}
	return nil
}

// DeleteDocument removes the document record. Its chunks are removed by
// foreign-key cascade; graph cleanup is the caller's responsibility.
func (s *GraphDBStorage) DeleteDocument(ctx context.Context, documentID int64, userID int64) error {
	_, err := s.conn.Exec(ctx, `
		DELETE FROM documents WHERE id = $1 AND user_id = $2
	`, documentID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

func scanDocuments(rows pgxv5.Rows) ([]common.Document, error) {
	defer rows.Close()
	docs := make([]common.Document, 0)
	for rows.Next() {
		var d common.Document
		err := rows.Scan(&d.ID, &d.Filename, &d.FileType, &d.FileSize, &d.StorageKey,
			&d.ChunkCount, &d.Status, &d.ErrorMessage, &d.UserID, &d.UploadedAt, &d.ProcessedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
