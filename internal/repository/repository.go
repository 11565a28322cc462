// Package repository provides data access over pgx. Methods that must
// run inside a caller-owned transaction accept a database.TxQuerier;
// everything else runs on the pool directly.
package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Pool defines the database operations repositories need. Both
// *pgxpool.Pool and pgx.Tx satisfy it, which keeps repositories
// mockable in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// pgUniqueViolation is the Postgres error code for unique constraint
// violations.
const pgUniqueViolation = "23505"
