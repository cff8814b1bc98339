package mysql

import (
	"github.com/satishbabariya/dengine/dberr"
	"github.com/satishbabariya/dengine/engine"
	"github.com/satishbabariya/dengine/internal/debug"
	"github.com/satishbabariya/dengine/internal/sqlexec"
	"github.com/satishbabariya/dengine/value"
)

// Row is one MySQL result row. It is only valid inside the callback that
// received it.
type Row struct {
	cols  []sqlexec.Column
	cells []any
}

var _ engine.Row = (*Row)(nil)

// Columns implements engine.Row.
func (r *Row) Columns() []string { return sqlexec.Names(r.cols) }

// Value implements engine.Row. Cells of an unsupported native shape yield no
// value.
func (r *Row) Value(column string) (value.Value, bool) {
	i := sqlexec.Index(r.cols, column)
	if i < 0 {
		return value.Null(), false
	}
	v, err := FromNative(r.cells[i], r.cols[i].DatabaseType)
	if err != nil {
		debug.Debug("unreadable cell", "provider", "mysql", "column", column, "error", err)
		return value.Null(), false
	}
	return v, true
}

// DateString implements engine.Row.
func (r *Row) DateString(column, layout string) (string, error) {
	i := sqlexec.Index(r.cols, column)
	if i < 0 {
		return "", dberr.Conversionf("column %q not in row", column)
	}
	return formatDate(column, r.cells[i], r.cols[i].DatabaseType, layout)
}
