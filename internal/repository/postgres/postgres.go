// Package postgres implements the repository interfaces against a PostgreSQL
// connection pool. Every externally supplied value travels through positional
// parameters; statement text never contains interpolated caller input.
package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the query capability the repositories need from a connection pool.
// It is satisfied by *pgxpool.Pool and by pgxmock.PgxPoolIface, so tests can
// inject a mock pool through the same constructors production code uses.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
