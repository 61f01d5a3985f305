package neo4j

import (
	"context"
	"fmt"

	"github.com/docugraph/backend/pkg/common"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// GetDocumentGraph projects all entities of the document and every
// relationship whose source entity belongs to the document.
func (s *GraphNativeStorage) GetDocumentGraph(ctx context.Context, documentID int64) (common.GraphView, error) {
	view := common.GraphView{
		Nodes: []common.GraphNode{},
		Edges: []common.GraphEdge{},
	}

	result, err := s.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return collectRecords(ctx, tx, `
			MATCH (e:Entity {document_id: $document_id})
			RETURN e.id AS id, e.name AS name, e.type AS type,
				e.description AS description
			ORDER BY e.name
		`, map[string]any{"document_id": documentID})
	})
	if err != nil {
		return view, fmt.Errorf("failed to query document nodes: %w", err)
	}
	for _, record := range result.([]*neo4j.Record) {
		view.Nodes = append(view.Nodes, nodeFromRecord(record))
	}

	result, err = s.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return collectRecords(ctx, tx, `
			MATCH (src:Entity {document_id: $document_id})-[r:RELATED]->(tgt:Entity)
			RETURN src.id AS source, tgt.id AS target, r.type AS type,
				r.description AS description
		`, map[string]any{"document_id": documentID})
	})
	if err != nil {
		return view, fmt.Errorf("failed to query document edges: %w", err)
	}
	for _, record := range result.([]*neo4j.Record) {
		view.Edges = append(view.Edges, edgeFromRecord(record))
	}

	return view, nil
}

// GetUserGraph projects all entities owned by the user (optionally filtered
// to a document set) and only relationships with both endpoints inside the
// projected node set.
func (s *GraphNativeStorage) GetUserGraph(ctx context.Context, userID int64, documentIDs []int64) (common.GraphView, error) {
	view := common.GraphView{
		Nodes: []common.GraphNode{},
		Edges: []common.GraphEdge{},
	}
	params := map[string]any{
		"user_id":      userID,
		"document_ids": int64List(documentIDs),
	}

	result, err := s.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return collectRecords(ctx, tx, `
			MATCH (e:Entity {user_id: $user_id})
			WHERE size($document_ids) = 0 OR e.document_id IN $document_ids
			RETURN e.id AS id, e.name AS name, e.type AS type,
				e.description AS description
			ORDER BY e.document_id, e.name
		`, params)
	})
	if err != nil {
		return view, fmt.Errorf("failed to query user nodes: %w", err)
	}
	for _, record := range result.([]*neo4j.Record) {
		view.Nodes = append(view.Nodes, nodeFromRecord(record))
	}

	result, err = s.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return collectRecords(ctx, tx, `
			MATCH (src:Entity {user_id: $user_id})-[r:RELATED]->(tgt:Entity {user_id: $user_id})
			WHERE size($document_ids) = 0
				OR (src.document_id IN $document_ids AND tgt.document_id IN $document_ids)
			RETURN src.id AS source, tgt.id AS target, r.type AS type,
				r.description AS description
		`, params)
	})
	if err != nil {
		return view, fmt.Errorf("failed to query user edges: %w", err)
	}
	for _, record := range result.([]*neo4j.Record) {
		view.Edges = append(view.Edges, edgeFromRecord(record))
	}

	return view, nil
}

// FindRelatedEntities resolves seeds by case-insensitive substring match on
// entity name and expands over [:RELATED] edges in both directions up to
// maxDepth hops, ordered by ascending hop distance with seeds at distance
// zero.
func (s *GraphNativeStorage) FindRelatedEntities(
	ctx context.Context,
	namePattern string,
	userID int64,
	maxDepth int,
) ([]common.RelatedEntity, error) {
	params := map[string]any{
		"user_id": userID,
		"pattern": namePattern,
	}

	result, err := s.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return collectRecords(ctx, tx, `
			MATCH (seed:Entity {user_id: $user_id})
			WHERE toLower(seed.name) CONTAINS toLower($pattern)
			RETURN seed.id AS id, seed.name AS name, seed.type AS type,
				seed.description AS description, seed.document_id AS document_id,
				seed.user_id AS user_id
			ORDER BY seed.name
		`, params)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query seed nodes: %w", err)
	}

	seeds := result.([]*neo4j.Record)
	if len(seeds) == 0 {
		return nil, nil
	}

	related := make([]common.RelatedEntity, 0, len(seeds))
	for _, record := range seeds {
		related = append(related, common.RelatedEntity{Entity: entityFromRecord(record), Distance: 0})
	}
	if maxDepth <= 0 {
		return related, nil
	}

	// The variable-length bound cannot be a query parameter.
	expandQuery := fmt.Sprintf(`
		MATCH (seed:Entity {user_id: $user_id})
		WHERE toLower(seed.name) CONTAINS toLower($pattern)
		MATCH p = shortestPath((seed)-[:RELATED*1..%d]-(other:Entity))
		WHERE other.user_id = $user_id
			AND NOT toLower(other.name) CONTAINS toLower($pattern)
		RETURN other.id AS id, other.name AS name, other.type AS type,
			other.description AS description, other.document_id AS document_id,
			other.user_id AS user_id, min(length(p)) AS distance
		ORDER BY distance, name
	`, maxDepth)

	result, err = s.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return collectRecords(ctx, tx, expandQuery, params)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to expand related nodes: %w", err)
	}
	for _, record := range result.([]*neo4j.Record) {
		related = append(related, common.RelatedEntity{
			Entity:   entityFromRecord(record),
			Distance: int(recordInt64(record, "distance")),
		})
	}
	return related, nil
}

// FindShortestPath resolves each name by substring match and returns the
// node list of an unweighted shortest path between the two entities,
// traversing edges in both directions. Returns nil when either name does not
// resolve or the entities are disconnected.
func (s *GraphNativeStorage) FindShortestPath(
	ctx context.Context,
	nameA string,
	nameB string,
	userID int64,
) ([]common.GraphNode, error) {
	from, err := s.resolveByName(ctx, userID, nameA)
	if err != nil {
		return nil, err
	}
	to, err := s.resolveByName(ctx, userID, nameB)
	if err != nil {
		return nil, err
	}
	if from == nil || to == nil {
		return nil, nil
	}
	if from.ID == to.ID {
		return []common.GraphNode{*from}, nil
	}

	result, err := s.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return collectRecords(ctx, tx, `
			MATCH (a:Entity {id: $from_id}), (b:Entity {id: $to_id})
			MATCH p = shortestPath((a)-[:RELATED*]-(b))
			RETURN nodes(p) AS path
			LIMIT 1
		`, map[string]any{
			"from_id": from.ID,
			"to_id":   to.ID,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query shortest path: %w", err)
	}

	records := result.([]*neo4j.Record)
	if len(records) == 0 {
		return nil, nil
	}

	value, _ := records[0].Get("path")
	rawNodes, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected shortest path result shape")
	}

	path := make([]common.GraphNode, 0, len(rawNodes))
	for _, raw := range rawNodes {
		node, ok := raw.(neo4j.Node)
		if !ok {
			continue
		}
		path = append(path, common.GraphNode{
			ID:          propString(node, "id"),
			Name:        propString(node, "name"),
			Type:        propString(node, "type"),
			Description: propString(node, "description"),
		})
	}
	return path, nil
}

// DeleteDocumentGraph removes all entity nodes of the document together with
// every edge touching them.
func (s *GraphNativeStorage) DeleteDocumentGraph(ctx context.Context, documentID int64) error {
	_, err := s.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, `
			MATCH (e:Entity {document_id: $document_id})
			DETACH DELETE e
		`, map[string]any{"document_id": documentID})
	})
	if err != nil {
		return fmt.Errorf("failed to delete document nodes: %w", err)
	}
	return nil
}

// GetStatistics returns entity, relationship, and document counts for the
// user.
func (s *GraphNativeStorage) GetStatistics(ctx context.Context, userID int64) (common.GraphStatistics, error) {
	result, err := s.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return collectRecords(ctx, tx, `
			OPTIONAL MATCH (e:Entity {user_id: $user_id})
			OPTIONAL MATCH (e)-[r:RELATED]->()
			RETURN count(DISTINCT e) AS entities,
				count(DISTINCT r) AS relationships,
				count(DISTINCT e.document_id) AS documents
		`, map[string]any{"user_id": userID})
	})
	if err != nil {
		return common.GraphStatistics{}, fmt.Errorf("failed to query graph statistics: %w", err)
	}

	records := result.([]*neo4j.Record)
	if len(records) == 0 {
		return common.GraphStatistics{}, nil
	}
	record := records[0]
	return common.GraphStatistics{
		Entities:      recordInt64(record, "entities"),
		Relationships: recordInt64(record, "relationships"),
		Documents:     recordInt64(record, "documents"),
	}, nil
}

func (s *GraphNativeStorage) resolveByName(ctx context.Context, userID int64, pattern string) (*common.GraphNode, error) {
	result, err := s.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return collectRecords(ctx, tx, `
			MATCH (e:Entity {user_id: $user_id})
			WHERE toLower(e.name) CONTAINS toLower($pattern)
			RETURN e.id AS id, e.name AS name, e.type AS type,
				e.description AS description
			ORDER BY e.name
			LIMIT 1
		`, map[string]any{
			"user_id": userID,
			"pattern": pattern,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve entity name: %w", err)
	}

	records := result.([]*neo4j.Record)
	if len(records) == 0 {
		return nil, nil
	}
	node := nodeFromRecord(records[0])
	return &node, nil
}

func propString(node neo4j.Node, key string) string {
	value, ok := node.Props[key]
	if !ok || value == nil {
		return ""
	}
	s, _ := value.(string)
	return s
}
