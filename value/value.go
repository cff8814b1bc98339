// Package value implements the canonical, backend-independent value model.
//
// Every native database value read by an adapter is normalized into a Value,
// and every bound parameter travels as a Value until the adapter converts it
// back into its driver's native representation.
package value

import (
	"bytes"
	"fmt"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindUint
	KindInt
	KindFloat
	KindText
	KindBytes
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBytes:
		return "bytes"
	default:
		return "null"
	}
}

// Value is an immutable tagged union. The zero Value is Null.
type Value struct {
	kind Kind
	u    uint64
	i    int64
	f    float64
	s    string
	b    []byte
}

// Null returns the Null variant.
func Null() Value { return Value{} }

// Uint returns an unsigned-integer Value.
func Uint(u uint64) Value { return Value{kind: KindUint, u: u} }

// Int returns a signed-integer Value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a float Value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Text returns a text Value.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Bytes returns a byte-sequence Value holding a copy of b.
func Bytes(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{kind: KindBytes, b: cp}
}

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the Null variant.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Equal reports whether v and o hold the same variant and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindUint:
		return v.u == o.u
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindText:
		return v.s == o.s
	case KindBytes:
		return bytes.Equal(v.b, o.b)
	default:
		return true
	}
}

// String renders v for display. Byte sequences are shown as text when they
// are valid UTF-8.
func (v Value) String() string {
	switch v.kind {
	case KindUint:
		return strconv.FormatUint(v.u, 10)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindText:
		return v.s
	case KindBytes:
		if s, ok := v.AsText(); ok {
			return s
		}
		return fmt.Sprintf("%x", v.b)
	default:
		return "NULL"
	}
}

// GoString implements fmt.GoStringer for readable test failures.
func (v Value) GoString() string {
	return fmt.Sprintf("value.Value{%s: %q}", v.kind, v.String())
}
