package sqlite

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/satishbabariya/dengine/dberr"
	"github.com/satishbabariya/dengine/value"
)

// FromNative converts a cell scanned from go-sqlite3. Timestamps decoded by
// the driver from DATE, DATETIME and TIMESTAMP columns become date text;
// booleans become Int 0 or 1.
func FromNative(cell any) (value.Value, error) {
	return value.FromDriver(cell)
}

// ToNative converts a bound parameter for go-sqlite3. SQLite integers are
// signed 64-bit, so unsigned values beyond that range are bound as decimal
// text.
func ToNative(v value.Value) any {
	switch v.Kind() {
	case value.KindUint:
		u, _ := v.AsUint64()
		if u > math.MaxInt64 {
			return strconv.FormatUint(u, 10)
		}
		return int64(u)
	case value.KindInt:
		i, _ := v.AsInt64()
		return i
	case value.KindFloat:
		f, _ := v.AsFloat64()
		return f
	case value.KindText:
		s, _ := v.AsText()
		return s
	case value.KindBytes:
		b, _ := v.AsBytes()
		return b
	default:
		return nil
	}
}

// formatDate renders a date cell with a Go time layout. Text cells are parsed
// with the driver's timestamp formats; unparseable text and the zero time the
// driver substitutes for an invalid stored date are conversion errors.
func formatDate(column string, cell any, layout string) (string, error) {
	switch c := cell.(type) {
	case time.Time:
		if c.IsZero() {
			return "", dberr.Conversionf("column %q holds an invalid date", column)
		}
		return c.Format(layout), nil
	case string:
		return formatText(column, c, layout)
	case []byte:
		return formatText(column, string(c), layout)
	}
	return "", dberr.Conversionf("column %q is not a date", column)
}

func formatText(column, s, layout string) (string, error) {
	s = strings.TrimSuffix(s, "Z")
	for _, f := range sqlite3.SQLiteTimestampFormats {
		if t, err := time.ParseInLocation(f, s, time.UTC); err == nil {
			return t.Format(layout), nil
		}
	}
	return "", dberr.Conversionf("column %q: invalid date %q", column, s)
}
