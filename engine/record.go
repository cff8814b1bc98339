package engine

import (
	"github.com/satishbabariya/dengine/value"
)

// Queryable is implemented by record types that can be built from a Row.
// Implementations use a pointer receiver and report missing or mistyped
// required fields as errors (see Require).
type Queryable interface {
	FromRow(r Row) error
}

// Insertable is implemented by record types that can be written.
//
// Fields returns the persisted column names and must not depend on the
// receiver: it is read once from the zero value of the type. Values returns
// the receiver's field values in exactly the same order. Write statements
// rely on that positional correspondence, not on name matching.
type Insertable interface {
	Fields() []string
	Values() []value.Value
}

// Record is a Queryable capturing every column of a row, for callers without
// a dedicated record type.
type Record struct {
	Columns []string
	Values  []value.Value
}

// FromRow implements Queryable.
func (rec *Record) FromRow(r Row) error {
	cols := r.Columns()
	rec.Columns = make([]string, len(cols))
	rec.Values = make([]value.Value, len(cols))
	copy(rec.Columns, cols)
	for i, c := range cols {
		v, _ := r.Value(c)
		rec.Values[i] = v
	}
	return nil
}

// Get returns the value of column, if present.
func (rec Record) Get(column string) (value.Value, bool) {
	for i, c := range rec.Columns {
		if c == column {
			return rec.Values[i], true
		}
	}
	return value.Null(), false
}

// Strings renders every value for display.
func (rec Record) Strings() []string {
	out := make([]string, len(rec.Values))
	for i, v := range rec.Values {
		out[i] = v.String()
	}
	return out
}
