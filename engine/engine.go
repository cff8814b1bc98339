// Package engine is dengine's backend-independent query surface.
//
// A backend adapter implements Connectionable: execute a statement, stream
// rows, and describe its SQL dialect. Everything else (scalar and row
// lookups, paged selects with found-rows counting, bulk inserts and upserts,
// key-set deletes) is built here on top of those primitives, so every
// backend shares the same semantics and the same generated SQL.
//
// Operations are synchronous. The context bounds how long a caller is
// willing to wait; nothing is cached and nothing is retried.
package engine

import (
	"context"

	"github.com/satishbabariya/dengine/sqlgen"
	"github.com/satishbabariya/dengine/value"
)

// Connectionable is the contract every backend adapter satisfies.
type Connectionable interface {
	// Execute runs a statement that returns no rows.
	Execute(ctx context.Context, sql string, params value.Params) (Affected, error)

	// Query runs a statement and calls fn for every row in order. Iteration
	// stops at the first error returned by fn, which Query returns as is.
	// Rows are only valid during fn.
	Query(ctx context.Context, sql string, params value.Params, fn func(Row) error) error

	// Dialect returns the backend's SQL fragments.
	Dialect() sqlgen.Dialect
}

// Affected summarizes a write.
type Affected struct {
	RowsAffected uint64
	// LastInsertID is the id assigned by the most recent auto-increment
	// insert, or 0.
	LastInsertID uint64
}

// Page holds one page of mapped records and a count: either len(Data), or
// the number of rows the query matches without its LIMIT clause.
type Page[T any] struct {
	Data  []T
	Count int
}
