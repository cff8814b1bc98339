package engine

import (
	"slices"

	"github.com/satishbabariya/dengine/dberr"
	"github.com/satishbabariya/dengine/value"
)

// Row is a read-only view over one backend-native row. A Row is only valid
// inside the callback that received it and must not be retained.
type Row interface {
	// Columns returns the column names in result order.
	Columns() []string

	// Value looks up a column by name. An unknown column yields no value,
	// never an error.
	Value(column string) (value.Value, bool)

	// DateString formats a date-typed column with a Go time layout. It fails
	// with a conversion error when the column is absent, not date-like, or
	// holds a month or day of zero.
	DateString(column, layout string) (string, error)
}

// Get reads column from r as T. A missing column and a present column of the
// wrong type both yield no value; callers needing strictness use Require.
func Get[T value.Scalar](r Row, column string) (T, bool) {
	v, ok := r.Value(column)
	if !ok {
		var zero T
		return zero, false
	}
	return value.To[T](v)
}

// Require reads column from r as T and reports a conversion error when the
// column is missing, its native cell cannot be read, or it has the wrong type.
func Require[T value.Scalar](r Row, column string) (T, error) {
	v, ok := r.Value(column)
	if !ok {
		var zero T
		if slices.Contains(r.Columns(), column) {
			return zero, dberr.Conversionf("column %q: unreadable native value", column)
		}
		return zero, dberr.Conversionf("column %q not in row", column)
	}
	out, ok := value.To[T](v)
	if !ok {
		return out, dberr.Conversionf("column %q: cannot convert %s value to %T", column, v.Kind(), out)
	}
	return out, nil
}
