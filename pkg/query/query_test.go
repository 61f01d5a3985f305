package query

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/docugraph/backend/pkg/ai"
	"github.com/docugraph/backend/pkg/common"
)

type fakeAIClient struct {
	answer       string
	generateErr  error
	embedding    []float32
	embeddingErr error
}

func (c *fakeAIClient) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	if c.generateErr != nil {
		return "", c.generateErr
	}
	return c.answer, nil
}

func (c *fakeAIClient) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	if c.embeddingErr != nil {
		return nil, c.embeddingErr
	}
	return c.embedding, nil
}

func (c *fakeAIClient) ResetMetrics()               {}
func (c *fakeAIClient) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

type fakeDocumentSource struct {
	documents []common.Document
	err       error
}

func (s *fakeDocumentSource) ListCompletedDocuments(ctx context.Context, userID int64, documentIDs []int64) ([]common.Document, error) {
	return s.documents, s.err
}

type fakeVectorSearcher struct {
	results map[int64][]common.ScoredChunk
	errs    map[int64]error
}

func (s *fakeVectorSearcher) SearchChunks(ctx context.Context, documentID int64, embedding []float32, limit int) ([]common.ScoredChunk, error) {
	if err, ok := s.errs[documentID]; ok {
		return nil, err
	}
	return s.results[documentID], nil
}

type fakeGraphSource struct {
	entities []common.Entity
	related  map[string][]common.RelatedEntity
	view     common.GraphView
	viewErr  error
}

func (s *fakeGraphSource) ListEntities(ctx context.Context, userID int64, documentIDs []int64) ([]common.Entity, error) {
	return s.entities, nil
}

func (s *fakeGraphSource) FindRelatedEntities(ctx context.Context, namePattern string, userID int64, maxDepth int) ([]common.RelatedEntity, error) {
	return s.related[namePattern], nil
}

func (s *fakeGraphSource) GetUserGraph(ctx context.Context, userID int64, documentIDs []int64) (common.GraphView, error) {
	return s.view, s.viewErr
}

func newTestEngine(client *fakeAIClient, docs *fakeDocumentSource, vectors *fakeVectorSearcher, graph *fakeGraphSource, trace Tracer) *Engine {
	return NewEngine(NewEngineParams{
		AIClient:  client,
		Documents: docs,
		Vectors:   vectors,
		Graph:     graph,
		Trace:     trace,
	})
}

func TestQueryNoDocuments(t *testing.T) {
	engine := newTestEngine(
		&fakeAIClient{answer: "should not be called"},
		&fakeDocumentSource{},
		&fakeVectorSearcher{},
		&fakeGraphSource{},
		nil,
	)

	resp, err := engine.Query(context.Background(), Request{Text: "anything", UserID: 1, TopK: 5, UseGraph: true})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if resp.Answer != NoDocumentsAnswer {
		t.Errorf("answer = %q, want %q", resp.Answer, NoDocumentsAnswer)
	}
	if len(resp.Chunks) != 0 || len(resp.Entities) != 0 {
		t.Errorf("chunks/entities should be empty, got %d/%d", len(resp.Chunks), len(resp.Entities))
	}
	if resp.GraphContext != nil {
		t.Errorf("graph context should be absent")
	}
}

func TestQueryGlobalTopK(t *testing.T) {
	docs := &fakeDocumentSource{documents: []common.Document{
		{ID: 1, Status: common.DocumentStatusCompleted},
		{ID: 2, Status: common.DocumentStatusCompleted},
	}}
	vectors := &fakeVectorSearcher{results: map[int64][]common.ScoredChunk{
		1: {scored("a1", 0.9), scored("a2", 0.5)},
		2: {scored("b1", 0.8), scored("b2", 0.3)},
	}}

	engine := newTestEngine(&fakeAIClient{answer: "ok", embedding: []float32{1}}, docs, vectors, &fakeGraphSource{}, nil)

	resp, err := engine.Query(context.Background(), Request{Text: "query", UserID: 1, TopK: 3})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	wantIDs := []string{"a1", "b1", "a2"}
	if len(resp.Chunks) != len(wantIDs) {
		t.Fatalf("chunks = %d, want %d", len(resp.Chunks), len(wantIDs))
	}
	for i, want := range wantIDs {
		if resp.Chunks[i].ID != want {
			t.Errorf("chunk[%d] = %q, want %q", i, resp.Chunks[i].ID, want)
		}
	}
}

func TestQueryPartialSearchFailure(t *testing.T) {
	docs := &fakeDocumentSource{documents: []common.Document{
		{ID: 1, Status: common.DocumentStatusCompleted},
		{ID: 2, Status: common.DocumentStatusCompleted},
	}}
	vectors := &fakeVectorSearcher{
		results: map[int64][]common.ScoredChunk{1: {scored("a1", 0.9)}},
		errs:    map[int64]error{2: errors.New("partition unavailable")},
	}

	trace := NewQueryTrace()
	engine := newTestEngine(&fakeAIClient{answer: "ok", embedding: []float32{1}}, docs, vectors, &fakeGraphSource{}, trace)

	resp, err := engine.Query(context.Background(), Request{Text: "query", UserID: 1, TopK: 5})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(resp.Chunks) != 1 || resp.Chunks[0].ID != "a1" {
		t.Errorf("expected the surviving document's chunk, got %+v", resp.Chunks)
	}

	snapshot := trace.Snapshot()
	if len(snapshot.SearchedDocumentIDs) != 1 || snapshot.SearchedDocumentIDs[0] != 1 {
		t.Errorf("searched = %v, want [1]", snapshot.SearchedDocumentIDs)
	}
	if len(snapshot.DegradedDocumentIDs) != 1 || snapshot.DegradedDocumentIDs[0] != 2 {
		t.Errorf("degraded = %v, want [2]", snapshot.DegradedDocumentIDs)
	}
}

func TestQueryGraphDisabled(t *testing.T) {
	docs := &fakeDocumentSource{documents: []common.Document{{ID: 1, Status: common.DocumentStatusCompleted}}}
	graph := &fakeGraphSource{
		entities: []common.Entity{{ID: "e1", Name: "alice", DocumentID: 1}},
		view:     common.GraphView{Nodes: []common.GraphNode{{ID: "e1"}}},
	}

	engine := newTestEngine(&fakeAIClient{answer: "ok", embedding: []float32{1}}, docs, &fakeVectorSearcher{}, graph, nil)

	resp, err := engine.Query(context.Background(), Request{Text: "alice", UserID: 1, TopK: 5, UseGraph: false})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if resp.GraphContext != nil {
		t.Errorf("graph context must be absent when graph use is disabled")
	}
	if len(resp.Entities) != 0 {
		t.Errorf("entities = %d, want 0 when graph use is disabled", len(resp.Entities))
	}
}

func TestQueryGraphEnrichment(t *testing.T) {
	docs := &fakeDocumentSource{documents: []common.Document{{ID: 1, Status: common.DocumentStatusCompleted}}}
	graph := &fakeGraphSource{
		entities: []common.Entity{
			{ID: "e1", Name: "Alice", Description: "An engineer", DocumentID: 1},
			{ID: "e2", Name: "Unrelated", Description: "Nothing here", DocumentID: 1},
		},
		related: map[string][]common.RelatedEntity{
			"Alice": {{Entity: common.Entity{ID: "e3", Name: "Acme Corp"}, Distance: 1}},
		},
		view: common.GraphView{
			Nodes: []common.GraphNode{{ID: "e1", Name: "Alice"}, {ID: "e3", Name: "Acme Corp"}},
			Edges: []common.GraphEdge{{Source: "e1", Target: "e3", Type: "works_at"}},
		},
	}

	engine := newTestEngine(&fakeAIClient{answer: "ok", embedding: []float32{1}}, docs, &fakeVectorSearcher{}, graph, nil)

	resp, err := engine.Query(context.Background(), Request{Text: "where does alice work", UserID: 1, TopK: 5, UseGraph: true})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	gotIDs := make([]string, 0, len(resp.Entities))
	for _, e := range resp.Entities {
		gotIDs = append(gotIDs, e.ID)
	}
	if want := []string{"e1", "e3"}; !equalStrings(gotIDs, want) {
		t.Errorf("entity ids = %v, want %v", gotIDs, want)
	}
	if resp.GraphContext == nil {
		t.Fatalf("graph context should be present when entities matched")
	}
	if len(resp.GraphContext.Edges) != 1 {
		t.Errorf("graph context edges = %d, want 1", len(resp.GraphContext.Edges))
	}
}

func TestQueryAnswerDegradesToMessage(t *testing.T) {
	docs := &fakeDocumentSource{documents: []common.Document{{ID: 1, Status: common.DocumentStatusCompleted}}}
	client := &fakeAIClient{generateErr: errors.New("model offline"), embedding: []float32{1}}

	engine := newTestEngine(client, docs, &fakeVectorSearcher{}, &fakeGraphSource{}, nil)

	resp, err := engine.Query(context.Background(), Request{Text: "query", UserID: 1, TopK: 5})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if !strings.HasPrefix(resp.Answer, "Error generating answer:") {
		t.Errorf("answer = %q, want generation-error message", resp.Answer)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
