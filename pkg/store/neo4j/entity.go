package neo4j

import (
	"context"
	"fmt"

	"github.com/docugraph/backend/pkg/common"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// CreateEntity upserts an entity node by its identifier, setting all
// properties.
func (s *GraphNativeStorage) CreateEntity(ctx context.Context, entity common.Entity) error {
	_, err := s.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, `
			MERGE (e:Entity {id: $id})
			SET e.name = $name,
				e.type = $type,
				e.description = $description,
				e.document_id = $document_id,
				e.user_id = $user_id
		`, map[string]any{
			"id":          entity.ID,
			"name":        entity.Name,
			"type":        entity.Type,
			"description": entity.Description,
			"document_id": entity.DocumentID,
			"user_id":     entity.UserID,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to upsert entity node: %w", err)
	}
	return nil
}

// FindEntity looks up an entity by its (document, name, type) natural key.
// Returns (nil, nil) when no node matches.
func (s *GraphNativeStorage) FindEntity(
	ctx context.Context,
	documentID int64,
	name string,
	entityType string,
) (*common.Entity, error) {
	result, err := s.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return collectRecords(ctx, tx, `
			MATCH (e:Entity {document_id: $document_id, name: $name, type: $type})
			RETURN e.id AS id, e.name AS name, e.type AS type,
				e.description AS description, e.document_id AS document_id,
				e.user_id AS user_id
			LIMIT 1
		`, map[string]any{
			"document_id": documentID,
			"name":        name,
			"type":        entityType,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find entity node: %w", err)
	}

	records := result.([]*neo4j.Record)
	if len(records) == 0 {
		return nil, nil
	}
	entity := entityFromRecord(records[0])
	return &entity, nil
}

// ListEntities returns all entities owned by the user, optionally restricted
// to the given document IDs.
func (s *GraphNativeStorage) ListEntities(
	ctx context.Context,
	userID int64,
	documentIDs []int64,
) ([]common.Entity, error) {
	result, err := s.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return collectRecords(ctx, tx, `
			MATCH (e:Entity {user_id: $user_id})
			WHERE size($document_ids) = 0 OR e.document_id IN $document_ids
			RETURN e.id AS id, e.name AS name, e.type AS type,
				e.description AS description, e.document_id AS document_id,
				e.user_id AS user_id
			ORDER BY e.document_id, e.name
		`, map[string]any{
			"user_id":      userID,
			"document_ids": int64List(documentIDs),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list entity nodes: %w", err)
	}

	records := result.([]*neo4j.Record)
	entities := make([]common.Entity, 0, len(records))
	for _, record := range records {
		entities = append(entities, entityFromRecord(record))
	}
	return entities, nil
}
