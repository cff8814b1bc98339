package postgres

import (
	"time"

	"github.com/satishbabariya/dengine/dberr"
	"github.com/satishbabariya/dengine/engine"
	"github.com/satishbabariya/dengine/internal/debug"
	"github.com/satishbabariya/dengine/internal/sqlexec"
	"github.com/satishbabariya/dengine/value"
)

// Row is one PostgreSQL result row, valid only inside the callback that
// received it.
type Row struct {
	cols  []sqlexec.Column
	cells []any
}

var _ engine.Row = (*Row)(nil)

// Columns implements engine.Row.
func (r *Row) Columns() []string { return sqlexec.Names(r.cols) }

// Value implements engine.Row.
func (r *Row) Value(column string) (value.Value, bool) {
	i := sqlexec.Index(r.cols, column)
	if i < 0 {
		return value.Null(), false
	}
	v, err := FromNative(r.cells[i])
	if err != nil {
		debug.Debug("unreadable cell", "provider", "postgres", "column", column, "error", err)
		return value.Null(), false
	}
	return v, true
}

// DateString implements engine.Row. Only DATE and TIMESTAMP columns qualify.
func (r *Row) DateString(column, layout string) (string, error) {
	i := sqlexec.Index(r.cols, column)
	if i < 0 {
		return "", dberr.Conversionf("column %q not in row", column)
	}
	switch r.cols[i].DatabaseType {
	case "DATE", "TIMESTAMP", "TIMESTAMPTZ":
		if t, ok := r.cells[i].(time.Time); ok {
			return t.Format(layout), nil
		}
	}
	return "", dberr.Conversionf("column %q is not a date", column)
}
