package mysql

import (
	"strconv"
	"strings"
	"time"

	"github.com/satishbabariya/dengine/dberr"
	"github.com/satishbabariya/dengine/value"
)

// FromNative converts a cell scanned from the driver. dbType is the column's
// DatabaseTypeName; temporal columns arrive as text and are normalized to the
// canonical date and duration renderings.
func FromNative(cell any, dbType string) (value.Value, error) {
	b, isBytes := cell.([]byte)
	switch {
	case isBytes && isDateType(dbType):
		d, err := parseDateTime(b)
		if err != nil {
			return value.Null(), err
		}
		return value.Text(value.FormatDate(d.year, d.month, d.day, d.hour, d.minute, d.second, d.micro)), nil
	case isBytes && dbType == "TIME":
		neg, days, h, mi, s, us, err := parseTime(b)
		if err != nil {
			return value.Null(), err
		}
		return value.Text(value.FormatDuration(neg, days, h, mi, s, us)), nil
	}
	return value.FromDriver(cell)
}

// ToNative converts a bound parameter into the shape the driver sends.
func ToNative(v value.Value) any {
	switch v.Kind() {
	case value.KindUint:
		u, _ := v.AsUint64()
		return u
	case value.KindInt:
		i, _ := v.AsInt64()
		return i
	case value.KindFloat:
		f, _ := v.AsFloat64()
		return f
	case value.KindText, value.KindBytes:
		b, _ := v.AsBytes()
		return b
	default:
		return nil
	}
}

func isDateType(dbType string) bool {
	switch dbType {
	case "DATE", "DATETIME", "TIMESTAMP":
		return true
	}
	return false
}

type dateTime struct {
	year, month, day     int
	hour, minute, second int
	micro                int
}

// parseDateTime reads "YYYY-MM-DD[ hh:mm:ss[.ffffff]]". Zero dates are
// accepted and keep their zero components.
func parseDateTime(b []byte) (dateTime, error) {
	var d dateTime
	s := string(b)

	date, clock, _ := strings.Cut(s, " ")
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return d, dberr.Conversionf("invalid date %q", s)
	}
	var err error
	if d.year, err = strconv.Atoi(parts[0]); err != nil {
		return d, dberr.Conversionf("invalid date %q", s)
	}
	if d.month, err = strconv.Atoi(parts[1]); err != nil {
		return d, dberr.Conversionf("invalid date %q", s)
	}
	if d.day, err = strconv.Atoi(parts[2]); err != nil {
		return d, dberr.Conversionf("invalid date %q", s)
	}
	if clock == "" {
		return d, nil
	}

	h, mi, sec, us, err := parseClock(clock)
	if err != nil {
		return d, dberr.Conversionf("invalid datetime %q", s)
	}
	d.hour, d.minute, d.second, d.micro = h, mi, sec, us
	return d, nil
}

// parseTime reads a TIME value "[-]hhh:mm:ss[.ffffff]", whose hours may
// exceed a day.
func parseTime(b []byte) (neg bool, days, hours, minutes, seconds, micro int, err error) {
	s := string(b)
	clock := strings.TrimPrefix(s, "-")
	neg = len(clock) != len(s)

	h, mi, sec, us, perr := parseClock(clock)
	if perr != nil {
		return false, 0, 0, 0, 0, 0, dberr.Conversionf("invalid time %q", s)
	}
	return neg, h / 24, h % 24, mi, sec, us, nil
}

func parseClock(s string) (h, mi, sec, micro int, err error) {
	whole, frac, _ := strings.Cut(s, ".")
	parts := strings.Split(whole, ":")
	if len(parts) != 3 {
		return 0, 0, 0, 0, strconv.ErrSyntax
	}
	if h, err = strconv.Atoi(parts[0]); err != nil {
		return
	}
	if mi, err = strconv.Atoi(parts[1]); err != nil {
		return
	}
	if sec, err = strconv.Atoi(parts[2]); err != nil {
		return
	}
	if frac != "" {
		if len(frac) > 6 {
			frac = frac[:6]
		}
		frac += strings.Repeat("0", 6-len(frac))
		if micro, err = strconv.Atoi(frac); err != nil {
			return
		}
	}
	return h, mi, sec, micro, nil
}

// formatDate renders a date-typed cell with a Go time layout, rejecting
// zero months and days.
func formatDate(column string, cell any, dbType, layout string) (string, error) {
	switch c := cell.(type) {
	case time.Time:
		return c.Format(layout), nil
	case []byte:
		if !isDateType(dbType) {
			break
		}
		d, err := parseDateTime(c)
		if err != nil {
			return "", err
		}
		if d.month <= 0 || d.day <= 0 {
			return "", dberr.Conversionf("column %q: invalid date %q", column, string(c))
		}
		t := time.Date(d.year, time.Month(d.month), d.day, d.hour, d.minute, d.second, d.micro*1000, time.UTC)
		return t.Format(layout), nil
	}
	return "", dberr.Conversionf("column %q is not a date", column)
}
