package query

import (
	"context"
	"sync"

	"github.com/docugraph/backend/pkg/ai"
	"github.com/docugraph/backend/pkg/common"
	"github.com/docugraph/backend/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// NoDocumentsAnswer is returned verbatim when the user has no completed
// documents to query.
const NoDocumentsAnswer = "No documents found. Please upload documents first."

// defaultSearchParallelMax bounds the per-document search fan-out.
const defaultSearchParallelMax = 8

// DocumentSource lists the documents eligible for querying.
type DocumentSource interface {
	ListCompletedDocuments(ctx context.Context, userID int64, documentIDs []int64) ([]common.Document, error)
}

// VectorSearcher runs nearest-neighbor chunk search inside one document's
// vector index partition.
type VectorSearcher interface {
	SearchChunks(ctx context.Context, documentID int64, embedding []float32, limit int) ([]common.ScoredChunk, error)
}

// GraphSource is the slice of the knowledge graph store the fusion engine
// reads from.
type GraphSource interface {
	ListEntities(ctx context.Context, userID int64, documentIDs []int64) ([]common.Entity, error)
	FindRelatedEntities(ctx context.Context, namePattern string, userID int64, maxDepth int) ([]common.RelatedEntity, error)
	GetUserGraph(ctx context.Context, userID int64, documentIDs []int64) (common.GraphView, error)
}

// Request is one retrieval-fusion query.
type Request struct {
	Text        string
	UserID      int64
	TopK        int
	UseGraph    bool
	DocumentIDs []int64
}

// Response is always produced, never aborted: under degraded conditions the
// Answer text itself communicates what went wrong. GraphContext is nil when
// UseGraph was false or no relevant entities were found.
type Response struct {
	Query        string               `json:"query"`
	Answer       string               `json:"answer"`
	Chunks       []common.ScoredChunk `json:"retrieved_chunks"`
	Entities     []common.Entity      `json:"entities_found"`
	GraphContext *common.GraphView    `json:"graph_context,omitempty"`
}

// Engine fuses vector search results with knowledge graph context and
// synthesizes an answer.
type Engine struct {
	aiClient ai.GraphAIClient
	docs     DocumentSource
	vectors  VectorSearcher
	graph    GraphSource
	trace    Tracer
}

// NewEngineParams holds the dependencies of a fusion engine.
type NewEngineParams struct {
	AIClient  ai.GraphAIClient
	Documents DocumentSource
	Vectors   VectorSearcher
	Graph     GraphSource
	Trace     Tracer
}

func NewEngine(params NewEngineParams) *Engine {
	return &Engine{
		aiClient: params.AIClient,
		docs:     params.Documents,
		vectors:  params.Vectors,
		graph:    params.Graph,
		trace:    params.Trace,
	}
}

// Query answers a question over the user's completed documents. Per-document
// vector searches run concurrently and individual failures degrade to
// partial results; graph enrichment applies only when requested. The
// response carries the answer together with the context it was built from.
func (e *Engine) Query(ctx context.Context, req Request) (*Response, error) {
	documents, err := e.docs.ListCompletedDocuments(ctx, req.UserID, req.DocumentIDs)
	if err != nil {
		return nil, err
	}

	if len(documents) == 0 {
		return &Response{
			Query:    req.Text,
			Answer:   NoDocumentsAnswer,
			Chunks:   []common.ScoredChunk{},
			Entities: []common.Entity{},
		}, nil
	}

	chunks := e.searchDocuments(ctx, req, documents)

	entities := []common.Entity{}
	var graphContext *common.GraphView
	if req.UseGraph {
		entities = e.findQueryEntities(ctx, req)
		if len(entities) > 0 {
			view, err := e.graph.GetUserGraph(ctx, req.UserID, req.DocumentIDs)
			if err != nil {
				logger.Error("[Query] Failed to fetch graph context", "error", err)
			} else {
				graphContext = &view
			}
		}
	}

	answer := generateAnswer(ctx, e.aiClient, req.Text, chunks, entities, graphContext)

	return &Response{
		Query:        req.Text,
		Answer:       answer,
		Chunks:       chunks,
		Entities:     entities,
		GraphContext: graphContext,
	}, nil
}

// searchDocuments fans out nearest-neighbor search across the eligible
// documents and merges the results into a global top-K. A failed search is
// logged, recorded in the trace, and skipped.
func (e *Engine) searchDocuments(
	ctx context.Context,
	req Request,
	documents []common.Document,
) []common.ScoredChunk {
	embedding, err := e.aiClient.GenerateEmbedding(ctx, []byte(req.Text))
	if err != nil {
		logger.Error("[Query] Failed to embed query", "error", err)
		for _, doc := range documents {
			RecordDegradedSearch(e.trace, doc.ID, err)
		}
		return []common.ScoredChunk{}
	}

	perDocument := make([][]common.ScoredChunk, len(documents))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(defaultSearchParallelMax)
	for i, doc := range documents {
		g.Go(func() error {
			results, err := e.vectors.SearchChunks(gCtx, doc.ID, embedding, req.TopK)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Error("[Query] Document search failed, skipping",
					"document", doc.ID, "error", err)
				RecordDegradedSearch(e.trace, doc.ID, err)
				return nil
			}
			RecordSearchedDocumentIDs(e.trace, doc.ID)
			perDocument[i] = results
			return nil
		})
	}
	g.Wait()

	return mergeTopK(perDocument, req.TopK)
}

// findQueryEntities scans the user's entities for keyword matches against
// the query, pulls each match's 1-hop neighbors, and dedupes the combined
// set by id in first-seen order, capped at maxRelevantEntities.
func (e *Engine) findQueryEntities(ctx context.Context, req Request) []common.Entity {
	keywords := queryKeywords(req.Text)
	if len(keywords) == 0 {
		return []common.Entity{}
	}

	entities, err := e.graph.ListEntities(ctx, req.UserID, req.DocumentIDs)
	if err != nil {
		logger.Error("[Query] Failed to list entities for matching", "error", err)
		return []common.Entity{}
	}

	relevant := make([]common.Entity, 0)
	for _, entity := range entities {
		if !matchesKeywords(entity, keywords) {
			continue
		}
		relevant = append(relevant, entity)

		related, err := e.graph.FindRelatedEntities(ctx, entity.Name, req.UserID, 1)
		if err != nil {
			logger.Error("[Query] Failed to expand related entities",
				"entity", entity.ID, "error", err)
			continue
		}
		for _, r := range related {
			relevant = append(relevant, r.Entity)
		}
	}

	unique := dedupeEntities(relevant)
	for _, entity := range unique {
		RecordQueriedEntityIDs(e.trace, entity.ID)
	}
	return unique
}
