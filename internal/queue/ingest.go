package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/docugraph/backend/internal/storage"
	"github.com/docugraph/backend/internal/util"
	"github.com/docugraph/backend/pkg/ai"
	"github.com/docugraph/backend/pkg/common"
	"github.com/docugraph/backend/pkg/graph"
	"github.com/docugraph/backend/pkg/leaselock"
	"github.com/docugraph/backend/pkg/logger"
	"github.com/docugraph/backend/pkg/store"
	graphstorage "github.com/docugraph/backend/pkg/store/pgx"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IngestMessage is the payload published on the ingest queue when a
// document is uploaded.
type IngestMessage struct {
	DocumentID int64 `json:"document_id"`
	UserID     int64 `json:"user_id"`
}

// ProcessIngestMessage runs the full ingestion pipeline for one document:
// download the stored text, chunk it, embed and index the chunks, extract
// the knowledge graph, and mark the document completed. Any error marks
// the document failed and is returned so the delivery gets retried.
func ProcessIngestMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	aiClient ai.GraphAIClient,
	conn *pgxpool.Pool,
	knowledgeGraph *store.KnowledgeGraph,
	msg string,
) error {
	data := new(IngestMessage)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return err
	}

	db := graphstorage.NewGraphDBStorage(conn)

	doc, err := db.GetDocument(ctx, data.DocumentID, data.UserID)
	if err != nil {
		return fmt.Errorf("failed to load document %d: %w", data.DocumentID, err)
	}
	if doc == nil {
		// The document was deleted before ingestion ran.
		logger.Warn("[Queue][Ingest] Document no longer exists", "document_id", data.DocumentID)
		return nil
	}

	lockClient := leaselock.New(conn)
	lease, err := lockClient.Acquire(ctx, fmt.Sprintf("document:%d", data.DocumentID), leaselock.Options{
		TTL:         10 * time.Minute,
		RenewEvery:  4 * time.Minute,
		Wait:        true,
		TokenPrefix: fmt.Sprintf("ingest/%d/", data.DocumentID),
	})
	if err != nil {
		return err
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if releaseErr := lease.Release(releaseCtx); releaseErr != nil {
			logger.Warn("[Queue][Ingest] Failed to release lease", "document_id", data.DocumentID, "err", releaseErr)
		}
	}()
	ctx = lease.Context

	if err := ingestDocument(ctx, s3Client, aiClient, db, knowledgeGraph, doc); err != nil {
		failCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if markErr := db.MarkDocumentFailed(failCtx, doc.ID, err.Error()); markErr != nil {
			logger.Warn("[Queue][Ingest] Failed to mark document as failed", "document_id", doc.ID, "err", markErr)
		}
		return err
	}

	return nil
}

func ingestDocument(
	ctx context.Context,
	s3Client *awss3.Client,
	aiClient ai.GraphAIClient,
	db *graphstorage.GraphDBStorage,
	knowledgeGraph *store.KnowledgeGraph,
	doc *common.Document,
) error {
	start := time.Now()

	raw, err := storage.GetFile(ctx, s3Client, doc.StorageKey)
	if err != nil {
		return fmt.Errorf("failed to download document %d: %w", doc.ID, err)
	}

	encoder := util.GetEnvString("CHUNK_ENCODER", "cl100k_base")
	maxTokens := util.GetEnvInt("CHUNK_MAX_TOKENS", 500)

	chunks, err := graph.ChunkDocument(doc.ID, string(raw), encoder, maxTokens)
	if err != nil {
		return fmt.Errorf("failed to chunk document %d: %w", doc.ID, err)
	}
	if len(chunks) == 0 {
		return fmt.Errorf("document %d contains no text", doc.ID)
	}

	inputs := make([][]byte, len(chunks))
	for i, chunk := range chunks {
		inputs[i] = []byte(chunk.Text)
	}
	embeddings, err := store.GenerateEmbeddings(ctx, aiClient, inputs)
	if err != nil {
		return fmt.Errorf("failed to embed document %d: %w", doc.ID, err)
	}

	if err := db.SaveChunks(ctx, chunks, embeddings); err != nil {
		return fmt.Errorf("failed to save chunks for document %d: %w", doc.ID, err)
	}

	result, err := graph.ProcessForGraph(ctx, aiClient, knowledgeGraph, doc.ID, doc.UserID, chunks)
	if err != nil {
		return fmt.Errorf("failed to build graph for document %d: %w", doc.ID, err)
	}

	if err := db.MarkDocumentCompleted(ctx, doc.ID, len(chunks)); err != nil {
		return fmt.Errorf("failed to mark document %d completed: %w", doc.ID, err)
	}

	logger.Info("[Queue][Ingest] Document processed",
		"document_id", doc.ID,
		"chunks", len(chunks),
		"entities", result.Entities,
		"relationships", result.Relationships,
		"duration", time.Since(start),
	)
	return nil
}
