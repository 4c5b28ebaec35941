package radix

import (
	"strconv"
	"strings"

	errs "github.com/wippyai/wasm-radix/errors"
	"github.com/wippyai/wasm-radix/radix/internal/expr"
)

// Rational is an exact numerator and denominator with a decimal mixed-number
// rendering, as produced from an "a / b" expression.
type Rational struct {
	Display    string  `json:"display"`
	Numer      int32   `json:"numer"`
	Denom      int32   `json:"denom"`
	Value      float64 `json:"value"`
	Precision  int32   `json:"precision"`
	Difference float64 `json:"difference"`
}

// NewRational builds an unreduced rational from numer/denom.
func NewRational(numer, denom int32) (Rational, error) {
	if denom == 0 {
		return Rational{}, errs.DivisionByZero(errs.PhaseConvert, "rational")
	}
	return Rational{
		Display: mixedNumber(int64(numer), int64(denom), 10),
		Numer:   numer,
		Denom:   denom,
		Value:   float64(numer) / float64(denom),
	}, nil
}

// Approximate converts value with FloatToFraction and records the precision
// used and the reported difference.
func Approximate(value float64, precision int32) (Rational, error) {
	f, err := FloatToFraction(value, precision)
	if err != nil {
		return Rational{}, err
	}
	r, err := NewRational(f.Numer, f.Denom)
	if err != nil {
		return Rational{}, err
	}
	r.Precision = precision
	r.Difference = f.Diff
	return r, nil
}

// FracExprToRational parses "numer / denom" where both sides are decimal
// integers, for example "3 / 2" becomes 1 1/2.
func FracExprToRational(s string) (Rational, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return Rational{}, errs.New(errs.PhaseParse, errs.KindInvalidInput).
			Detail("fraction expression %q must have exactly one '/'", s).
			Value(s).
			Build()
	}
	numer, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 32)
	if err != nil {
		return Rational{}, errs.ParseFailed("numerator", err)
	}
	denom, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 32)
	if err != nil {
		return Rational{}, errs.ParseFailed("denominator", err)
	}
	return NewRational(int32(numer), int32(denom))
}

// ExprToFloat evaluates an arithmetic expression. It supports + - * / %,
// right associative ^, parentheses, the constants pi and e, and the usual
// math functions (sqrt, ln, sin, atan2, min, max, ...).
func ExprToFloat(s string) (float64, error) {
	v, err := expr.Eval(s)
	if err != nil {
		return 0, errs.ParseFailed("expression", err)
	}
	return v, nil
}

// ExprToRadix evaluates s and renders the result in base.
func ExprToRadix(s string, base uint32) (string, error) {
	if err := checkBase(base); err != nil {
		return "", err
	}
	v, err := ExprToFloat(s)
	if err != nil {
		return "", err
	}
	return DecimalToRadix(v, base)
}
