package wasmradix

import (
	"context"
	"math"
)

// Names of the conversion functions exported by the radix module.
const (
	ExportDecimalToRadix       = "decimal_to_radix"
	ExportFloatToFraction      = "float_to_fraction"
	ExportFractionToUnit       = "fraction_to_unit"
	ExportRadixFractionToRadix = "radix_fraction_to_radix"
	ExportRadixToDecimal       = "radix_to_decimal"
)

// ExportNames lists the conversion exports in the order the loader reads them.
var ExportNames = []string{
	ExportDecimalToRadix,
	ExportFloatToFraction,
	ExportFractionToUnit,
	ExportRadixFractionToRadix,
	ExportRadixToDecimal,
}

// Supported radix range. Digits are extracted as single bytes, so 255 is
// the largest usable base.
const (
	MinBase uint32 = 2
	MaxBase uint32 = 255
)

// ValidBase reports whether base is within [MinBase, MaxBase].
func ValidBase(base uint32) bool {
	return base >= MinBase && base <= MaxBase
}

// Converter is the radix conversion capability. It is implemented both by
// the wasm-backed bindings (loader.Bindings) and by the native port
// (radix.Native).
type Converter interface {
	DecimalToRadix(ctx context.Context, value float64, base uint32) (string, error)
	RadixToDecimal(ctx context.Context, value string, base uint32) (float64, error)
	FractionToUnit(ctx context.Context, numer, denom int32, base uint32) (string, error)
	RadixFractionToRadix(ctx context.Context, value string, base uint32) (NumString, error)
	FloatToFraction(ctx context.Context, value float64, precision int32) (Fraction, error)
}

// Fraction is a rational approximation of a float.
type Fraction struct {
	Numer int32
	Denom int32
	Diff  float64
}

// Numerator returns the numerator, or 0 when it reached the int32 ceiling.
func (f Fraction) Numerator() int32 {
	if f.Numer >= math.MaxInt32 {
		return 0
	}
	return f.Numer
}

// Denominator returns the denominator, or 0 when it saturated in either
// direction.
func (f Fraction) Denominator() int32 {
	if f.Denom >= math.MaxInt32 || f.Denom <= -math.MaxInt32 {
		return 0
	}
	return f.Denom
}

// Difference returns the approximation error.
func (f Fraction) Difference() float64 {
	return f.Diff
}

// NumString pairs a decimal value with its radix rendering.
type NumString struct {
	Num  float64
	Text string
}

// AsFloat returns the decimal value.
func (n NumString) AsFloat() float64 {
	return n.Num
}

// AsString returns the rendering in the requested base.
func (n NumString) AsString() string {
	return n.Text
}
