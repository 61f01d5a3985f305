package store

import (
	"context"

	"github.com/docugraph/backend/pkg/common"
	"github.com/docugraph/backend/pkg/logger"
)

// KnowledgeGraph composes the relational fallback backend and the optional
// native graph backend behind the GraphStorage contract.
//
// Backend selection happens once, at construction: the native backend is
// only passed in when its startup connectivity probe succeeded, and is never
// re-probed for the process lifetime. When both backends are present, writes
// and deletes are mirrored to both (the relational side guarantees
// cascade-delete integrity) and reads are served by the native side. With no
// backend at all, every operation returns its empty or zero value and a nil
// error: an unreachable store is a steady, expected state, not an error.
type KnowledgeGraph struct {
	relational GraphStorage
	native     GraphStorage
}

func NewKnowledgeGraph(relational GraphStorage, native GraphStorage) *KnowledgeGraph {
	return &KnowledgeGraph{
		relational: relational,
		native:     native,
	}
}

// Available reports whether any backend is reachable. Callers can use this
// to distinguish "empty because nothing matched" from "empty because there
// is no store".
func (k *KnowledgeGraph) Available() bool {
	return k.relational != nil || k.native != nil
}

// reader returns the backend that serves read operations.
func (k *KnowledgeGraph) reader() GraphStorage {
	if k.native != nil {
		return k.native
	}
	return k.relational
}

func (k *KnowledgeGraph) CreateEntity(ctx context.Context, entity common.Entity) error {
	if k.relational != nil {
		if err := k.relational.CreateEntity(ctx, entity); err != nil {
			return err
		}
	}
	if k.native != nil {
		if err := k.native.CreateEntity(ctx, entity); err != nil {
			logger.Error("[Store] Failed to mirror entity to graph backend", "entity", entity.Name, "err", err)
		}
	}
	return nil
}

func (k *KnowledgeGraph) CreateRelationship(ctx context.Context, rel common.Relationship) error {
	if k.relational != nil {
		if err := k.relational.CreateRelationship(ctx, rel); err != nil {
			return err
		}
	}
	if k.native != nil {
		if err := k.native.CreateRelationship(ctx, rel); err != nil {
			logger.Error("[Store] Failed to mirror relationship to graph backend", "type", rel.Type, "err", err)
		}
	}
	return nil
}

func (k *KnowledgeGraph) FindEntity(ctx context.Context, documentID int64, name string, entityType string) (*common.Entity, error) {
	// Natural-key lookups back the dedup invariant and always consult the
	// relational side when present, since it is the authority for cascades.
	if k.relational != nil {
		return k.relational.FindEntity(ctx, documentID, name, entityType)
	}
	if k.native != nil {
		return k.native.FindEntity(ctx, documentID, name, entityType)
	}
	return nil, nil
}

func (k *KnowledgeGraph) ListEntities(ctx context.Context, userID int64, documentIDs []int64) ([]common.Entity, error) {
	r := k.reader()
	if r == nil {
		return nil, nil
	}
	return r.ListEntities(ctx, userID, documentIDs)
}

func (k *KnowledgeGraph) GetDocumentGraph(ctx context.Context, documentID int64) (common.GraphView, error) {
	r := k.reader()
	if r == nil {
		return common.GraphView{Nodes: []common.GraphNode{}, Edges: []common.GraphEdge{}}, nil
	}
	return r.GetDocumentGraph(ctx, documentID)
}

func (k *KnowledgeGraph) GetUserGraph(ctx context.Context, userID int64, documentIDs []int64) (common.GraphView, error) {
	r := k.reader()
	if r == nil {
		return common.GraphView{Nodes: []common.GraphNode{}, Edges: []common.GraphEdge{}}, nil
	}
	return r.GetUserGraph(ctx, userID, documentIDs)
}

func (k *KnowledgeGraph) FindRelatedEntities(ctx context.Context, namePattern string, userID int64, maxDepth int) ([]common.RelatedEntity, error) {
	r := k.reader()
	if r == nil {
		return nil, nil
	}
	return r.FindRelatedEntities(ctx, namePattern, userID, maxDepth)
}

func (k *KnowledgeGraph) FindShortestPath(ctx context.Context, nameA string, nameB string, userID int64) ([]common.GraphNode, error) {
	r := k.reader()
	if r == nil {
		return nil, nil
	}
	return r.FindShortestPath(ctx, nameA, nameB, userID)
}

func (k *KnowledgeGraph) DeleteDocumentGraph(ctx context.Context, documentID int64) error {
	if k.relational != nil {
		if err := k.relational.DeleteDocumentGraph(ctx, documentID); err != nil {
			return err
		}
	}
	if k.native != nil {
		if err := k.native.DeleteDocumentGraph(ctx, documentID); err != nil {
			logger.Error("[Store] Failed to delete document graph from graph backend", "document_id", documentID, "err", err)
		}
	}
	return nil
}

func (k *KnowledgeGraph) GetStatistics(ctx context.Context, userID int64) (common.GraphStatistics, error) {
	r := k.reader()
	if r == nil {
		return common.GraphStatistics{}, nil
	}
	return r.GetStatistics(ctx, userID)
}
