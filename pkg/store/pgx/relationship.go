package pgx

import (
	"context"
	"fmt"

	"github.com/docugraph/backend/pkg/common"
	"github.com/docugraph/backend/pkg/logger"
)

// CreateRelationship upserts a relationship by its identifier. Both endpoint
// entities must already exist; when either is missing the edge is silently
// not created, matching the referential-integrity policy of the extractor
// (dangling relationships are a data-quality outcome, not an error).
func (s *GraphDBStorage) CreateRelationship(ctx context.Context, rel common.Relationship) error {
	var sourceExists, targetExists bool
	err := s.conn.QueryRow(ctx, `
		SELECT
			EXISTS(SELECT 1 FROM entities WHERE id = $1),
			EXISTS(SELECT 1 FROM entities WHERE id = $2)
	`, rel.SourceID, rel.TargetID).Scan(&sourceExists, &targetExists)
	if err != nil {
		return fmt.Errorf("failed to check relationship endpoints: %w", err)
	}
	if !sourceExists || !targetExists {
		logger.Debug("[Store] Dropping relationship with missing endpoint",
			"type", rel.Type, "source", rel.SourceID, "target", rel.TargetID)
		return nil
	}

	_, err = s.conn.Exec(ctx, `
		INSERT INTO relationships (id, type, description, source_id, target_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			type = EXCLUDED.type,
			description = EXCLUDED.description,
			source_id = EXCLUDED.source_id,
			target_id = EXCLUDED.target_id
	`, rel.ID, rel.Type, rel.Description, rel.SourceID, rel.TargetID)
	if err != nil {
		return fmt.Errorf("failed to upsert relationship: %w", err)
	}
	return nil
}
