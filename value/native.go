package value

import (
	"database/sql/driver"
	"reflect"
	"time"

	"github.com/satishbabariya/dengine/dberr"
)

// FromDriver maps a value produced by a database/sql driver into a Value.
// Adapters refine this with column type information where their driver needs
// it; the mapping here covers every shape database/sql itself can return.
func FromDriver(src any) (Value, error) {
	switch x := src.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case int64:
		return Int(x), nil
	case int:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case uint64:
		return Uint(x), nil
	case uint:
		return Uint(uint64(x)), nil
	case uint32:
		return Uint(uint64(x)), nil
	case uint16:
		return Uint(uint64(x)), nil
	case uint8:
		return Uint(uint64(x)), nil
	case float64:
		return Float(x), nil
	case float32:
		return Float(float64(x)), nil
	case bool:
		if x {
			return Int(1), nil
		}
		return Int(0), nil
	case string:
		return Text(x), nil
	case []byte:
		return Bytes(x), nil
	case time.Time:
		return FromTime(x), nil
	case time.Duration:
		return FromDuration(x), nil
	}
	if b, ok := byteSequence(reflect.ValueOf(src)); ok {
		return Bytes(b), nil
	}
	return Null(), dberr.Conversionf("unsupported native value of type %T", src)
}

// From converts a caller-supplied Go value into a Value. driver.Valuer
// implementations are resolved first; time.Time is bound as SQL datetime text.
func From(arg any) (Value, error) {
	switch x := arg.(type) {
	case Rounded:
		return x.Value(), nil
	case *Rounded:
		if x == nil {
			return Null(), nil
		}
		return x.Value(), nil
	case time.Time:
		return Text(x.Format(paramTimeLayout)), nil
	case driver.Valuer:
		v, err := x.Value()
		if err != nil {
			return Null(), dberr.Conversionf("valuer %T: %v", arg, err)
		}
		if t, ok := v.(time.Time); ok {
			return Text(t.Format(paramTimeLayout)), nil
		}
		return FromDriver(v)
	}
	return FromDriver(arg)
}
