package store

import (
	"context"

	"github.com/docugraph/backend/pkg/common"
)

// GraphStorage defines the contract shared by the knowledge graph backends.
// The same operations are served by the relational fallback (PostgreSQL)
// and the native graph store (Neo4j); callers never know which one answered.
//
// Write operations have upsert-by-id semantics. CreateRelationship requires
// both endpoint entities to already exist in the backend; when an endpoint
// is missing no edge is created and no error is returned.
type GraphStorage interface {
	CreateEntity(ctx context.Context, entity common.Entity) error
	CreateRelationship(ctx context.Context, rel common.Relationship) error

	// FindEntity looks up an entity by its natural dedup key. Returns
	// (nil, nil) when no such entity exists.
	FindEntity(ctx context.Context, documentID int64, name string, entityType string) (*common.Entity, error)

	// ListEntities returns all entities owned by the user, optionally
	// restricted to a set of document IDs.
	ListEntities(ctx context.Context, userID int64, documentIDs []int64) ([]common.Entity, error)

	// GetDocumentGraph projects all entities of the document and every
	// relationship whose source entity belongs to the document.
	GetDocumentGraph(ctx context.Context, documentID int64) (common.GraphView, error)

	// GetUserGraph projects all entities owned by the user (optionally
	// restricted to documentIDs) and only relationships with both
	// endpoints inside that node set.
	GetUserGraph(ctx context.Context, userID int64, documentIDs []int64) (common.GraphView, error)

	// FindRelatedEntities resolves seed nodes by substring name match and
	// expands breadth-first up to maxDepth hops. Results are distinct and
	// ordered by ascending distance from the seed, seeds included at
	// distance zero.
	FindRelatedEntities(ctx context.Context, namePattern string, userID int64, maxDepth int) ([]common.RelatedEntity, error)

	// FindShortestPath returns the node list of an unweighted shortest
	// path between the two name-matched entities, traversing edges in
	// both directions. Returns nil when the entities are disconnected or
	// either name does not resolve.
	FindShortestPath(ctx context.Context, nameA string, nameB string, userID int64) ([]common.GraphNode, error)

	// DeleteDocumentGraph removes all entities of the document and, by
	// cascade, every relationship touching them.
	DeleteDocumentGraph(ctx context.Context, documentID int64) error

	GetStatistics(ctx context.Context, userID int64) (common.GraphStatistics, error)
}
