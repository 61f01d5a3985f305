package pgx

import (
	"context"
	"fmt"

	"github.com/docugraph/backend/pkg/common"
	"github.com/docugraph/backend/pkg/store"
)

// GetDocumentGraph projects all entities of the document and every
// relationship whose source entity belongs to the document.
func (s *GraphDBStorage) GetDocumentGraph(ctx context.Context, documentID int64) (common.GraphView, error) {
	view := emptyView()

	rows, err := s.conn.Query(ctx, `
		SELECT id, name, type, description
		FROM entities
		WHERE document_id = $1
		ORDER BY name
	`, documentID)
	if err != nil {
		return view, fmt.Errorf("failed to query document entities: %w", err)
	}
	nodes, err := scanNodes(rows)
	if err != nil {
		return view, err
	}
	view.Nodes = nodes

	edgeRows, err := s.conn.Query(ctx, `
		SELECT r.source_id, r.target_id, r.type, r.description
		FROM relationships r
		JOIN entities src ON src.id = r.source_id
		WHERE src.document_id = $1
	`, documentID)
	if err != nil {
		return view, fmt.Errorf("failed to query document relationships: %w", err)
	}
	edges, err := scanEdges(edgeRows)
	if err != nil {
		return view, err
	}
	view.Edges = edges

	return view, nil
}

// GetUserGraph projects all entities owned by the user (optionally filtered
// to a document set) and only relationships with both endpoints inside the
// projected node set.
func (s *GraphDBStorage) GetUserGraph(ctx context.Context, userID int64, documentIDs []int64) (common.GraphView, error) {
	view := emptyView()

	entities, err := s.ListEntities(ctx, userID, documentIDs)
	if err != nil {
		return view, err
	}

	inSet := make(map[string]bool, len(entities))
	for _, e := range entities {
		inSet[e.ID] = true
		view.Nodes = append(view.Nodes, common.GraphNode{
			ID:          e.ID,
			Name:        e.Name,
			Type:        e.Type,
			Description: e.Description,
		})
	}
	if len(entities) == 0 {
		return view, nil
	}

	ids := make([]string, 0, len(entities))
	for _, e := range entities {
		ids = append(ids, e.ID)
	}

	edgeRows, err := s.conn.Query(ctx, `
		SELECT source_id, target_id, type, description
		FROM relationships
		WHERE source_id = ANY($1)
	`, ids)
	if err != nil {
		return view, fmt.Errorf("failed to query user relationships: %w", err)
	}
	edges, err := scanEdges(edgeRows)
	if err != nil {
		return view, err
	}

	for _, edge := range edges {
		if inSet[edge.Target] {
			view.Edges = append(view.Edges, edge)
		}
	}

	return view, nil
}

// FindRelatedEntities resolves seeds by case-insensitive substring match on
// entity name, then expands breadth-first over the user's relationship graph
// up to maxDepth hops. The result is ordered by ascending distance, seeds
// first at distance zero.
func (s *GraphDBStorage) FindRelatedEntities(
	ctx context.Context,
	namePattern string,
	userID int64,
	maxDepth int,
) ([]common.RelatedEntity, error) {
	entities, err := s.ListEntities(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]common.Entity, len(entities))
	seeds := make([]string, 0)
	for _, e := range entities {
		byID[e.ID] = e
		if containsFold(e.Name, namePattern) {
			seeds = append(seeds, e.ID)
		}
	}
	if len(seeds) == 0 {
		return nil, nil
	}

	adj, err := s.userAdjacency(ctx, userID)
	if err != nil {
		return nil, err
	}

	expanded := store.ExpandFrom(adj, seeds, maxDepth)
	out := make([]common.RelatedEntity, 0, len(expanded))
	for _, nd := range expanded {
		e, ok := byID[nd.ID]
		if !ok {
			continue
		}
		out = append(out, common.RelatedEntity{Entity: e, Distance: nd.Distance})
	}
	return out, nil
}

// FindShortestPath resolves each name by substring match and returns the
// node list of an unweighted shortest path between the two entities,
// traversing relationship edges in both directions. Returns nil when either
// name does not resolve or the entities are disconnected.
func (s *GraphDBStorage) FindShortestPath(
	ctx context.Context,
	nameA string,
	nameB string,
	userID int64,
) ([]common.GraphNode, error) {
	entities, err := s.ListEntities(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]common.Entity, len(entities))
	var fromID, toID string
	for _, e := range entities {
		byID[e.ID] = e
		if fromID == "" && containsFold(e.Name, nameA) {
			fromID = e.ID
		}
		if toID == "" && containsFold(e.Name, nameB) {
			toID = e.ID
		}
	}
	if fromID == "" || toID == "" {
		return nil, nil
	}

	adj, err := s.userAdjacency(ctx, userID)
	if err != nil {
		return nil, err
	}

	path := store.ShortestPath(adj, fromID, toID)
	if path == nil {
		return nil, nil
	}

	nodes := make([]common.GraphNode, 0, len(path))
	for _, id := range path {
		e := byID[id]
		nodes = append(nodes, common.GraphNode{
			ID:          e.ID,
			Name:        e.Name,
			Type:        e.Type,
			Description: e.Description,
		})
	}
	return nodes, nil
}

// DeleteDocumentGraph removes all entities for a document; their
// relationships are removed by foreign-key cascade.
func (s *GraphDBStorage) DeleteDocumentGraph(ctx context.Context, documentID int64) error {
	_, err := s.conn.Exec(ctx, `DELETE FROM entities WHERE document_id = $1`, documentID)
	if err != nil {
		return fmt.Errorf("failed to delete document graph: %w", err)
	}
	return nil
}

// GetStatistics returns entity, relationship, and document counts for the user.
func (s *GraphDBStorage) GetStatistics(ctx context.Context, userID int64) (common.GraphStatistics, error) {
	var stats common.GraphStatistics
	err := s.conn.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM entities WHERE user_id = $1),
			(SELECT COUNT(*) FROM relationships r JOIN entities e ON e.id = r.source_id WHERE e.user_id = $1),
			(SELECT COUNT(DISTINCT document_id) FROM entities WHERE user_id = $1)
	`, userID).Scan(&stats.Entities, &stats.Relationships, &stats.Documents)
	if err != nil {
		return common.GraphStatistics{}, fmt.Errorf("failed to query graph statistics: %w", err)
	}
	return stats, nil
}

func (s *GraphDBStorage) userAdjacency(ctx context.Context, userID int64) (store.Adjacency, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT r.source_id, r.target_id, r.type, r.description
		FROM relationships r
		JOIN entities src ON src.id = r.source_id
		WHERE src.user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user adjacency: %w", err)
	}
	edges, err := scanEdges(rows)
	if err != nil {
		return nil, err
	}
	return store.BuildAdjacency(edges), nil
}
