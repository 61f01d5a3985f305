package pgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/docugraph/backend/pkg/common"

	pgxv5 "github.com/jackc/pgx/v5"
)

// CreateEntity upserts an entity by its identifier, setting all fields.
func (s *GraphDBStorage) CreateEntity(ctx context.Context, entity common.Entity) error {
	_, err := s.conn.Exec(ctx, `
		INSERT INTO entities (id, name, type, description, document_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			type = EXCLUDED.type,
			description = EXCLUDED.description,
			document_id = EXCLUDED.document_id,
			user_id = EXCLUDED.user_id
	`, entity.ID, entity.Name, entity.Type, entity.Description, entity.DocumentID, entity.UserID)
	if err != nil {
		return fmt.Errorf("failed to upsert entity: %w", err)
	}
	return nil
}

// FindEntity looks up an entity by its (document, name, type) natural key.
// Returns (nil, nil) when no entity matches.
func (s *GraphDBStorage) FindEntity(
	ctx context.Context,
	documentID int64,
	name string,
	entityType string,
) (*common.Entity, error) {
	row := s.conn.QueryRow(ctx, `
		SELECT id, name, type, description, document_id, user_id
		FROM entities
		WHERE document_id = $1 AND name = $2 AND type = $3
	`, documentID, name, entityType)

	var e common.Entity
	err := row.Scan(&e.ID, &e.Name, &e.Type, &e.Description, &e.DocumentID, &e.UserID)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find entity: %w", err)
	}
	return &e, nil
}

// ListEntities returns all entities owned by the user, optionally restricted
// to the given document IDs.
func (s *GraphDBStorage) ListEntities(
	ctx context.Context,
	userID int64,
	documentIDs []int64,
) ([]common.Entity, error) {
	query := `
		SELECT id, name, type, description, document_id, user_id
		FROM entities
		WHERE user_id = $1
		ORDER BY document_id, name`
	args := []any{userID}

	if len(documentIDs) > 0 {
		query = `
		SELECT id, name, type, description, document_id, user_id
		FROM entities
		WHERE user_id = $1 AND document_id = ANY($2)
		ORDER BY document_id, name`
		args = append(args, documentIDs)
	}

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	defer rows.Close()

	return scanEntities(rows)
}

func scanEntities(rows pgxv5.Rows) ([]common.Entity, error) {
	entities := make([]common.Entity, 0)
	for rows.Next() {
		var e common.Entity
		if err := rows.Scan(&e.ID, &e.Name, &e.Type, &e.Description, &e.DocumentID, &e.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		entities = append(entities, e)
	}
	return entities, rows.Err()
}
