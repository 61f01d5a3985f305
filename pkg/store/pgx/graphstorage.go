package pgx

import (
	"context"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// GraphDBStorage is the relational-fallback backend of the knowledge graph,
// implemented on PostgreSQL with pgvector for chunk similarity search.
// Graph queries are expressed as filtered joins; bounded traversals fetch
// the scoped edge set and expand in memory.
//
// It also owns the relational document and chunk tables, which exist
// regardless of which graph backend is active.
type GraphDBStorage struct {
	conn pgxIConn
}

// NewGraphDBStorage creates a GraphDBStorage on an existing database
// connection or pool.
func NewGraphDBStorage(conn pgxIConn) *GraphDBStorage {
	return &GraphDBStorage{conn: conn}
}
