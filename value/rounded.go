package value

import (
	"math"
	"strconv"

	"github.com/satishbabariya/dengine/dberr"
)

// Round2 rounds f to two decimal places, halves away from zero. The
// multiplication happens on the binary double, so inputs such as -1.005
// (stored as -1.00499999...) round toward zero.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// Rounded is a float constrained to two decimal places by construction. It is
// meant for currency-like columns whose backend precision exceeds what the
// application needs.
type Rounded struct {
	f float64
}

// NewRounded builds a Rounded from a float Value. Any other variant is a
// conversion error.
func NewRounded(v Value) (Rounded, error) {
	r, ok := v.AsRounded()
	if !ok {
		return Rounded{}, dberr.Conversionf("cannot round %s value to two decimals", v.Kind())
	}
	return r, nil
}

// NewRoundedFloat builds a Rounded from a plain float.
func NewRoundedFloat(f float64) Rounded {
	return Rounded{f: Round2(f)}
}

// Float64 returns the rounded value.
func (r Rounded) Float64() float64 { return r.f }

// Value returns r as a float Value.
func (r Rounded) Value() Value { return Float(r.f) }

// String formats r with exactly two decimals.
func (r Rounded) String() string {
	return strconv.FormatFloat(r.f, 'f', 2, 64)
}
