// Package sqlexec runs statements through database/sql on behalf of the
// adapters: bind, execute, fetch native cells, map driver errors once.
package sqlexec

import (
	"context"
	"database/sql"

	"github.com/satishbabariya/dengine/dberr"
	"github.com/satishbabariya/dengine/engine"
	"github.com/satishbabariya/dengine/internal/debug"
)

// Handle is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Handle interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Column describes one result column.
type Column struct {
	Name string
	// DatabaseType is the driver's upper-case type name, e.g. "DATETIME",
	// or "" when the driver does not report one.
	DatabaseType string
}

// Runner executes statements for one provider. MapError converts a driver
// error into the dberr taxonomy; it is never applied to errors returned by
// row callbacks.
type Runner struct {
	Provider string
	MapError func(error) error
}

// Exec runs a statement that returns no rows.
func (r Runner) Exec(ctx context.Context, h Handle, query string, args []any) (engine.Affected, error) {
	debug.Debug("exec", "provider", r.Provider, "sql", query, "params", len(args))

	res, err := h.ExecContext(ctx, query, args...)
	if err != nil {
		return engine.Affected{}, r.fail(err)
	}

	var a engine.Affected
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		a.RowsAffected = uint64(n)
	}
	// Not every driver reports insert ids.
	if id, err := res.LastInsertId(); err == nil && id > 0 {
		a.LastInsertID = uint64(id)
	}
	return a, nil
}

// Each runs a query and calls fn for every row with the column descriptions
// and the row's native cells. cells is reused between rows.
func (r Runner) Each(ctx context.Context, h Handle, query string, args []any, fn func(cols []Column, cells []any) error) error {
	debug.Debug("query", "provider", r.Provider, "sql", query, "params", len(args))

	rows, err := h.QueryContext(ctx, query, args...)
	if err != nil {
		return r.fail(err)
	}
	defer rows.Close()

	cols, err := columns(rows)
	if err != nil {
		return r.fail(err)
	}

	cells := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range cells {
		ptrs[i] = &cells[i]
	}

	for rows.Next() {
		for i := range cells {
			cells[i] = nil
		}
		if err := rows.Scan(ptrs...); err != nil {
			return r.fail(err)
		}
		if err := fn(cols, cells); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return r.fail(err)
	}
	return nil
}

func columns(rows *sql.Rows) ([]Column, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	cols := make([]Column, len(names))
	for i, n := range names {
		cols[i].Name = n
		if i < len(types) {
			cols[i].DatabaseType = types[i].DatabaseTypeName()
		}
	}
	return cols, nil
}

func (r Runner) fail(err error) error {
	mapped := err
	if r.MapError != nil {
		mapped = r.MapError(err)
	}
	debug.Debug("statement failed", "provider", r.Provider, "kind", dberr.KindOf(mapped).String(), "error", mapped)
	return mapped
}

// Index returns the position of name in cols, or -1.
func Index(cols []Column, name string) int {
	for i, c := range cols {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Names returns the column names in order.
func Names(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
	}
	return out
}
