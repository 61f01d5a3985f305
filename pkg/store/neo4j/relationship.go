package neo4j

import (
	"context"
	"fmt"

	"github.com/docugraph/backend/pkg/common"
	"github.com/docugraph/backend/pkg/logger"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// CreateRelationship upserts a relationship edge by its identifier. Both
// endpoint nodes must already exist; when either is missing the MATCH finds
// nothing, no edge is created, and no error is returned.
func (s *GraphNativeStorage) CreateRelationship(ctx context.Context, rel common.Relationship) error {
	result, err := s.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return collectRecords(ctx, tx, `
			MATCH (source:Entity {id: $source_id})
			MATCH (target:Entity {id: $target_id})
			MERGE (source)-[r:RELATED {id: $id}]->(target)
			SET r.type = $type,
				r.description = $description
			RETURN r.id AS id
		`, map[string]any{
			"id":          rel.ID,
			"type":        rel.Type,
			"description": rel.Description,
			"source_id":   rel.SourceID,
			"target_id":   rel.TargetID,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to upsert relationship edge: %w", err)
	}

	if records := result.([]*neo4j.Record); len(records) == 0 {
		logger.Debug("[Graph] Skipping relationship with missing endpoint",
			"relationship", rel.ID, "source", rel.SourceID, "target", rel.TargetID)
	}
	return nil
}
