package store

import (
	"context"
	"testing"

	"github.com/docugraph/backend/pkg/common"
)

// recordingStorage counts operation calls and returns canned values.
type recordingStorage struct {
	entities      []common.Entity
	relationships []common.Relationship
	deleted       []int64

	graphView common.GraphView
	listed    []common.Entity
	reads     int
}

func (r *recordingStorage) CreateEntity(ctx context.Context, e common.Entity) error {
	r.entities = append(r.entities, e)
	return nil
}

func (r *recordingStorage) CreateRelationship(ctx context.Context, rel common.Relationship) error {
	r.relationships = append(r.relationships, rel)
	return nil
}

func (r *recordingStorage) FindEntity(ctx context.Context, documentID int64, name string, entityType string) (*common.Entity, error) {
	for i := range r.entities {
		e := r.entities[i]
		if e.DocumentID == documentID && e.Name == name && e.Type == entityType {
			return &e, nil
		}
	}
	return nil, nil
}

func (r *recordingStorage) ListEntities(ctx context.Context, userID int64, documentIDs []int64) ([]common.Entity, error) {
	r.reads++
	return r.listed, nil
}

func (r *recordingStorage) GetDocumentGraph(ctx context.Context, documentID int64) (common.GraphView, error) {
	r.reads++
	return r.graphView, nil
}

func (r *recordingStorage) GetUserGraph(ctx context.Context, userID int64, documentIDs []int64) (common.GraphView, error) {
	r.reads++
	return r.graphView, nil
}

func (r *recordingStorage) FindRelatedEntities(ctx context.Context, namePattern string, userID int64, maxDepth int) ([]common.RelatedEntity, error) {
	r.reads++
	return nil, nil
}

func (r *recordingStorage) FindShortestPath(ctx context.Context, nameA string, nameB string, userID int64) ([]common.GraphNode, error) {
	r.reads++
	return nil, nil
}

func (r *recordingStorage) DeleteDocumentGraph(ctx context.Context, documentID int64) error {
	r.deleted = append(r.deleted, documentID)
	return nil
}

func (r *recordingStorage) GetStatistics(ctx context.Context, userID int64) (common.GraphStatistics, error) {
	r.reads++
	return common.GraphStatistics{Entities: int64(len(r.entities))}, nil
}

func TestKnowledgeGraphNoBackend(t *testing.T) {
	ctx := context.Background()
	kg := NewKnowledgeGraph(nil, nil)

	if kg.Available() {
		t.Fatal("expected Available() to be false with no backends")
	}

	if err := kg.CreateEntity(ctx, common.Entity{ID: "e1"}); err != nil {
		t.Errorf("CreateEntity: %v", err)
	}
	if err := kg.CreateRelationship(ctx, common.Relationship{ID: "r1"}); err != nil {
		t.Errorf("CreateRelationship: %v", err)
	}
	if e, err := kg.FindEntity(ctx, 1, "x", "PERSON"); err != nil || e != nil {
		t.Errorf("FindEntity = (%v, %v), want (nil, nil)", e, err)
	}
	if es, err := kg.ListEntities(ctx, 1, nil); err != nil || len(es) != 0 {
		t.Errorf("ListEntities = (%v, %v), want empty", es, err)
	}
	if g, err := kg.GetDocumentGraph(ctx, 1); err != nil || len(g.Nodes) != 0 || len(g.Edges) != 0 {
		t.Errorf("GetDocumentGraph = (%v, %v), want empty view", g, err)
	}
	if g, err := kg.GetUserGraph(ctx, 1, nil); err != nil || len(g.Nodes) != 0 {
		t.Errorf("GetUserGraph = (%v, %v), want empty view", g, err)
	}
	if rel, err := kg.FindRelatedEntities(ctx, "x", 1, 2); err != nil || rel != nil {
		t.Errorf("FindRelatedEntities = (%v, %v), want (nil, nil)", rel, err)
	}
	if p, err := kg.FindShortestPath(ctx, "a", "b", 1); err != nil || p != nil {
		t.Errorf("FindShortestPath = (%v, %v), want (nil, nil)", p, err)
	}
	if err := kg.DeleteDocumentGraph(ctx, 1); err != nil {
		t.Errorf("DeleteDocumentGraph: %v", err)
	}
	if s, err := kg.GetStatistics(ctx, 1); err != nil || s != (common.GraphStatistics{}) {
		t.Errorf("GetStatistics = (%v, %v), want zero", s, err)
	}
}

func TestKnowledgeGraphMirrorsWrites(t *testing.T) {
	ctx := context.Background()
	relational := &recordingStorage{}
	native := &recordingStorage{}
	kg := NewKnowledgeGraph(relational, native)

	if !kg.Available() {
		t.Fatal("expected Available() to be true")
	}

	entity := common.Entity{ID: "e1", Name: "Alice", Type: "PERSON", DocumentID: 7}
	if err := kg.CreateEntity(ctx, entity); err != nil {
		t.Fatalf("CreateEntity: %v", err)
	}
	if len(relational.entities) != 1 || len(native.entities) != 1 {
		t.Errorf("entity not mirrored: relational=%d native=%d", len(relational.entities), len(native.entities))
	}

	if err := kg.DeleteDocumentGraph(ctx, 7); err != nil {
		t.Fatalf("DeleteDocumentGraph: %v", err)
	}
	if len(relational.deleted) != 1 || len(native.deleted) != 1 {
		t.Errorf("delete not mirrored: relational=%v native=%v", relational.deleted, native.deleted)
	}
}

func TestKnowledgeGraphReadsPreferNative(t *testing.T) {
	ctx := context.Background()
	relational := &recordingStorage{}
	native := &recordingStorage{graphView: common.GraphView{
		Nodes: []common.GraphNode{{ID: "n1", Name: "Alice", Type: "PERSON"}},
	}}
	kg := NewKnowledgeGraph(relational, native)

	g, err := kg.GetUserGraph(ctx, 1, nil)
	if err != nil {
		t.Fatalf("GetUserGraph: %v", err)
	}
	if len(g.Nodes) != 1 || g.Nodes[0].Name != "Alice" {
		t.Errorf("unexpected view: %v", g)
	}
	if native.reads != 1 || relational.reads != 0 {
		t.Errorf("read routed wrong: native=%d relational=%d", native.reads, relational.reads)
	}
}

func TestKnowledgeGraphFallsBackToRelational(t *testing.T) {
	ctx := context.Background()
	relational := &recordingStorage{listed: []common.Entity{{ID: "e1"}}}
	kg := NewKnowledgeGraph(relational, nil)

	es, err := kg.ListEntities(ctx, 1, nil)
	if err != nil {
		t.Fatalf("ListEntities: %v", err)
	}
	if len(es) != 1 {
		t.Errorf("expected 1 entity, got %d", len(es))
	}
	if relational.reads != 1 {
		t.Errorf("expected relational read, got %d", relational.reads)
	}
}
