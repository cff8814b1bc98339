package value

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Scalar lists the Go types a Value can be converted into with To.
type Scalar interface {
	int | int8 | int16 | int32 | int64 |
		uint | uint8 | uint16 | uint32 | uint64 |
		float32 | float64 |
		string | bool | []byte |
		Rounded | Value
}

// AsInt64 converts integer variants (range checked) and base-10 integer text.
func (v Value) AsInt64() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindUint:
		if v.u > math.MaxInt64 {
			return 0, false
		}
		return int64(v.u), true
	case KindText, KindBytes:
		n, err := strconv.ParseInt(strings.TrimSpace(v.textual()), 10, 64)
		return n, err == nil
	}
	return 0, false
}

// AsUint64 converts non-negative integer variants and base-10 integer text.
func (v Value) AsUint64() (uint64, bool) {
	switch v.kind {
	case KindUint:
		return v.u, true
	case KindInt:
		if v.i < 0 {
			return 0, false
		}
		return uint64(v.i), true
	case KindText, KindBytes:
		n, err := strconv.ParseUint(strings.TrimSpace(v.textual()), 10, 64)
		return n, err == nil
	}
	return 0, false
}

// AsFloat64 converts float and integer variants and numeric text.
func (v Value) AsFloat64() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	case KindUint:
		return float64(v.u), true
	case KindText, KindBytes:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.textual()), 64)
		return f, err == nil
	}
	return 0, false
}

// AsBool maps nonzero integers to true and zero to false. Every other
// variant yields no value.
func (v Value) AsBool() (bool, bool) {
	switch v.kind {
	case KindInt:
		return v.i != 0, true
	case KindUint:
		return v.u != 0, true
	}
	return false, false
}

// AsText passes text through and decodes byte sequences as UTF-8.
func (v Value) AsText() (string, bool) {
	switch v.kind {
	case KindText:
		return v.s, true
	case KindBytes:
		if !utf8.Valid(v.b) {
			return "", false
		}
		return string(v.b), true
	}
	return "", false
}

// AsBytes returns a copy of a byte sequence, or the UTF-8 bytes of text.
func (v Value) AsBytes() ([]byte, bool) {
	switch v.kind {
	case KindBytes:
		cp := make([]byte, len(v.b))
		copy(cp, v.b)
		return cp, true
	case KindText:
		return []byte(v.s), true
	}
	return nil, false
}

// AsRounded converts only the float variant.
func (v Value) AsRounded() (Rounded, bool) {
	if v.kind != KindFloat {
		return Rounded{}, false
	}
	return NewRoundedFloat(v.f), true
}

func (v Value) textual() string {
	if v.kind == KindBytes {
		return string(v.b)
	}
	return v.s
}

// To converts v into T, reporting false when the variant cannot be
// represented as T.
func To[T Scalar](v Value) (T, bool) {
	var out T
	ok := false
	switch p := any(&out).(type) {
	case *int:
		var n int64
		if n, ok = signed(v, math.MinInt, math.MaxInt); ok {
			*p = int(n)
		}
	case *int8:
		var n int64
		if n, ok = signed(v, math.MinInt8, math.MaxInt8); ok {
			*p = int8(n)
		}
	case *int16:
		var n int64
		if n, ok = signed(v, math.MinInt16, math.MaxInt16); ok {
			*p = int16(n)
		}
	case *int32:
		var n int64
		if n, ok = signed(v, math.MinInt32, math.MaxInt32); ok {
			*p = int32(n)
		}
	case *int64:
		*p, ok = v.AsInt64()
	case *uint:
		var n uint64
		if n, ok = unsigned(v, math.MaxUint); ok {
			*p = uint(n)
		}
	case *uint8:
		var n uint64
		if n, ok = unsigned(v, math.MaxUint8); ok {
			*p = uint8(n)
		}
	case *uint16:
		var n uint64
		if n, ok = unsigned(v, math.MaxUint16); ok {
			*p = uint16(n)
		}
	case *uint32:
		var n uint64
		if n, ok = unsigned(v, math.MaxUint32); ok {
			*p = uint32(n)
		}
	case *uint64:
		*p, ok = v.AsUint64()
	case *float32:
		var f float64
		if f, ok = v.AsFloat64(); ok {
			*p = float32(f)
		}
	case *float64:
		*p, ok = v.AsFloat64()
	case *string:
		*p, ok = v.AsText()
	case *bool:
		*p, ok = v.AsBool()
	case *[]byte:
		*p, ok = v.AsBytes()
	case *Rounded:
		*p, ok = v.AsRounded()
	case *Value:
		*p, ok = v, true
	}
	if !ok {
		var zero T
		return zero, false
	}
	return out, true
}

func signed(v Value, lo, hi int64) (int64, bool) {
	n, ok := v.AsInt64()
	if !ok || n < lo || n > hi {
		return 0, false
	}
	return n, true
}

func unsigned(v Value, hi uint64) (uint64, bool) {
	n, ok := v.AsUint64()
	if !ok || n > hi {
		return 0, false
	}
	return n, true
}
