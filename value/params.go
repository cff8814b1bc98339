package value

import (
	"database/sql/driver"
	"reflect"
	"strconv"

	"github.com/satishbabariya/dengine/dberr"
)

// Params is the ordered parameter list bound to a prepared statement. Entry i
// binds placeholder i; the order must match the SQL text one to one.
type Params []Value

// NewParams converts args in source order. A variadic call is the ordered
// tuple; a slice or array argument (other than []byte) is a homogeneous
// sequence and is flattened in place, as is a nested Params.
func NewParams(args ...any) (Params, error) {
	p := make(Params, 0, len(args))
	for i, arg := range args {
		var err error
		if p, err = p.Append(arg); err != nil {
			return nil, dberr.WithOp("params", annotate(i, err))
		}
	}
	return p, nil
}

// Append converts arg and appends it, flattening sequences.
func (p Params) Append(arg any) (Params, error) {
	switch x := arg.(type) {
	case Params:
		return append(p, x...), nil
	case []Value:
		return append(p, x...), nil
	case []byte, Value, Rounded, driver.Valuer, nil:
		v, err := From(arg)
		if err != nil {
			return p, err
		}
		return append(p, v), nil
	}

	rv := reflect.ValueOf(arg)
	// Named byte sequences (json.RawMessage, net.IP, [16]byte) are one
	// Bytes argument, never a list of bytes.
	if b, ok := byteSequence(rv); ok {
		return append(p, Bytes(b)), nil
	}
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		for i := 0; i < rv.Len(); i++ {
			v, err := From(rv.Index(i).Interface())
			if err != nil {
				return p, err
			}
			p = append(p, v)
		}
		return p, nil
	}

	v, err := From(arg)
	if err != nil {
		return p, err
	}
	return append(p, v), nil
}

// byteSequence returns the contents of a slice or array whose element kind
// is uint8.
func byteSequence(rv reflect.Value) ([]byte, bool) {
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() != reflect.Uint8 {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return nil, true
	}
	b := make([]byte, rv.Len())
	reflect.Copy(reflect.ValueOf(b), rv)
	return b, true
}

// Len returns the number of entries.
func (p Params) Len() int { return len(p) }

func annotate(i int, err error) error {
	if de, ok := err.(*dberr.Error); ok {
		cp := *de
		cp.Detail = "argument " + strconv.Itoa(i) + ": " + de.Detail
		return &cp
	}
	return err
}
