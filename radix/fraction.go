package radix

import (
	"math"
	"math/big"

	wasmradix "github.com/wippyai/wasm-radix"
	errs "github.com/wippyai/wasm-radix/errors"
)

// FloatToFraction finds the smallest denominator in [1, precision] whose
// multiple of value lies within 1/(precision+1) of an integer, and returns
// the reduced fraction with the distance to that integer. When none
// qualifies the result is trunc(value)/1 with a zero difference.
//
// A numerator that does not fit in an int32 is a KindOverflow error.
func FloatToFraction(value float64, precision int32) (wasmradix.Fraction, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return wasmradix.Fraction{}, errs.New(errs.PhaseConvert, errs.KindInvalidInput).
			Detail("cannot approximate %v", value).
			Value(value).
			Build()
	}
	f, ok := floatToFraction(value, precision)
	if !ok {
		return wasmradix.Fraction{}, errs.Overflow(errs.PhaseConvert, value, "int32 numerator")
	}
	return f, nil
}

// floatToFraction reports false when the numerator saturated.
func floatToFraction(value float64, precision int32) (wasmradix.Fraction, bool) {
	tol := 1 / (float64(precision) + 1)
	abs := math.Abs(value)
	for i := int64(1); i <= int64(precision); i++ {
		diff := math.Mod(abs*float64(i), 1)
		switch {
		case diff <= tol:
		case diff >= 1-tol:
			diff = 1 - diff
		default:
			continue
		}
		numer, ok := saturate(math.Round(float64(i) * value))
		return reduce(numer, i, diff), ok
	}
	numer, ok := saturate(math.Trunc(value))
	return reduce(numer, 1, 0), ok
}

func saturate(v float64) (int64, bool) {
	switch {
	case v > math.MaxInt32:
		return math.MaxInt32, false
	case v < math.MinInt32:
		return math.MinInt32, false
	}
	return int64(v), true
}

func reduce(numer, denom int64, diff float64) wasmradix.Fraction {
	r := big.NewRat(numer, denom)
	return wasmradix.Fraction{
		Numer: int32(r.Num().Int64()),
		Denom: int32(r.Denom().Int64()),
		Diff:  diff,
	}
}

// extractDecimals returns |fractional part of value| as an exact rational:
// the small fraction it snaps to when one lies within 1/512, otherwise the
// value rounded up to 15 places.
func extractDecimals(value float64) *big.Rat {
	rem := math.Mod(value, 1)
	f, _ := floatToFraction(rem, 512)
	if f.Denom > 2 && f.Denom < 256 && f.Diff < 1.0/512 {
		return big.NewRat(abs64(int64(f.Numer)), int64(f.Denom))
	}
	places := math.Ceil(rem * 1e15)
	return big.NewRat(abs64(int64(places)), 1e15)
}
