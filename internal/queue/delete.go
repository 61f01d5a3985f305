package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/docugraph/backend/internal/storage"
	"github.com/docugraph/backend/pkg/logger"
	"github.com/docugraph/backend/pkg/store"
	graphstorage "github.com/docugraph/backend/pkg/store/pgx"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DeleteMessage is the payload published on the delete queue when a
// document is removed.
type DeleteMessage struct {
	DocumentID int64  `json:"document_id"`
	UserID     int64  `json:"user_id"`
	StorageKey string `json:"storage_key"`
}

// ProcessDeleteMessage removes a document's graph, its relational rows and
// its stored file. Chunks, entities and relationships cascade from the
// documents row.
func ProcessDeleteMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	conn *pgxpool.Pool,
	knowledgeGraph *store.KnowledgeGraph,
	msg string,
) error {
	data := new(DeleteMessage)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return err
	}

	if err := knowledgeGraph.DeleteDocumentGraph(ctx, data.DocumentID); err != nil {
		return fmt.Errorf("failed to delete graph for document %d: %w", data.DocumentID, err)
	}

	db := graphstorage.NewGraphDBStorage(conn)
	if err := db.DeleteDocument(ctx, data.DocumentID, data.UserID); err != nil {
		return fmt.Errorf("failed to delete document %d: %w", data.DocumentID, err)
	}

	if data.StorageKey != "" {
		if err := storage.DeleteFile(ctx, s3Client, data.StorageKey); err != nil {
			logger.Warn("[Queue][Delete] Failed to delete stored file", "document_id", data.DocumentID, "key", data.StorageKey, "err", err)
		}
	}

	logger.Info("[Queue][Delete] Document deleted", "document_id", data.DocumentID)
	return nil
}
