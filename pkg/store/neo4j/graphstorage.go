package neo4j

import (
	"context"
	"fmt"

	"github.com/docugraph/backend/pkg/common"
	"github.com/docugraph/backend/pkg/logger"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// GraphNativeStorage is the native graph backend of the knowledge graph,
// implemented on Neo4j. Entities are (:Entity) nodes keyed by id and
// relationships are [:RELATED] edges carrying their type as a property, so
// edge types stay free-form strings like in the relational backend.
type GraphNativeStorage struct {
	driver neo4j.DriverWithContext
}

// NewGraphNativeStorageParams configures the Neo4j connection.
type NewGraphNativeStorageParams struct {
	URI      string
	Username string
	Password string
}

// NewGraphNativeStorage connects to Neo4j and verifies connectivity before
// returning. A failed probe returns an error and the caller is expected to
// fall back to the relational backend for the lifetime of the process.
func NewGraphNativeStorage(ctx context.Context, params NewGraphNativeStorageParams) (*GraphNativeStorage, error) {
	driver, err := neo4j.NewDriverWithContext(
		params.URI,
		neo4j.BasicAuth(params.Username, params.Password, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to verify neo4j connectivity: %w", err)
	}

	logger.Info("[Graph] Connected to Neo4j", "uri", params.URI)
	return &GraphNativeStorage{driver: driver}, nil
}

// Close releases the underlying driver.
func (s *GraphNativeStorage) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func (s *GraphNativeStorage) read(
	ctx context.Context,
	work func(tx neo4j.ManagedTransaction) (any, error),
) (any, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)
	return session.ExecuteRead(ctx, work)
}

func (s *GraphNativeStorage) write(
	ctx context.Context,
	work func(tx neo4j.ManagedTransaction) (any, error),
) (any, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)
	return session.ExecuteWrite(ctx, work)
}

func collectRecords(ctx context.Context, tx neo4j.ManagedTransaction, query string, params map[string]any) (any, error) {
	result, err := tx.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	return result.Collect(ctx)
}

func entityFromRecord(record *neo4j.Record) common.Entity {
	return common.Entity{
		ID:          recordString(record, "id"),
		Name:        recordString(record, "name"),
		Type:        recordString(record, "type"),
		Description: recordString(record, "description"),
		DocumentID:  recordInt64(record, "document_id"),
		UserID:      recordInt64(record, "user_id"),
	}
}

func nodeFromRecord(record *neo4j.Record) common.GraphNode {
	return common.GraphNode{
		ID:          recordString(record, "id"),
		Name:        recordString(record, "name"),
		Type:        recordString(record, "type"),
		Description: recordString(record, "description"),
	}
}

func edgeFromRecord(record *neo4j.Record) common.GraphEdge {
	return common.GraphEdge{
		Source:      recordString(record, "source"),
		Target:      recordString(record, "target"),
		Type:        recordString(record, "type"),
		Description: recordString(record, "description"),
	}
}

// int64List converts an id slice to the list type the bolt protocol packs,
// mapping nil to an empty list so size() checks in Cypher stay non-null.
func int64List(ids []int64) []any {
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, id)
	}
	return out
}

func recordString(record *neo4j.Record, key string) string {
	value, ok := record.Get(key)
	if !ok || value == nil {
		return ""
	}
	s, _ := value.(string)
	return s
}

func recordInt64(record *neo4j.Record, key string) int64 {
	value, ok := record.Get(key)
	if !ok || value == nil {
		return 0
	}
	n, _ := value.(int64)
	return n
}
