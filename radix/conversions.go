package radix

import (
	"math"
	"math/big"
	"strings"

	wasmradix "github.com/wippyai/wasm-radix"
	errs "github.com/wippyai/wasm-radix/errors"
)

func checkBase(base uint32) error {
	if !wasmradix.ValidBase(base) {
		return errs.InvalidBase(errs.PhaseConvert, base)
	}
	return nil
}

// scaleDigits is the number of fractional digits computed for base. Small
// bases get more places; large ones fewer, since each group carries more.
func scaleDigits(base uint32) int {
	var start uint32
	switch {
	case base < 25:
		start = 20
	case base < 40:
		start = base * 2 / 3
	default:
		start = base * 4 / 7
	}
	return int(start - base/2)
}

func truncInt(v float64) *big.Int {
	n, _ := big.NewFloat(math.Trunc(v)).Int(nil)
	return n
}

// DecimalToRadix renders value in base. The integer part is exact; the
// fractional part is approximated, snapping to small exact fractions and
// dropping trailing zero digits. Bases above 36 use ':'-separated decimal
// groups and keep at most eight fractional groups.
func DecimalToRadix(value float64, base uint32) (string, error) {
	if err := checkBase(base); err != nil {
		return "", err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "", errs.New(errs.PhaseConvert, errs.KindInvalidInput).
			Detail("cannot render %v", value).
			Value(value).
			Build()
	}

	whole := truncInt(value)
	dec := extractDecimals(value)
	if dec.Cmp(big.NewRat(1, 1)) >= 0 {
		// rounding carried into the units
		if value < 0 {
			whole.Sub(whole, big.NewInt(1))
		} else {
			whole.Add(whole, big.NewInt(1))
		}
		dec.SetInt64(0)
	}

	text := integerText(whole, base, value < 0)
	if dec.Sign() == 0 {
		return text, nil
	}

	places := scaleDigits(base)
	scaled := new(big.Int).Exp(big.NewInt(int64(base)), big.NewInt(int64(places)), nil)
	scaled.Mul(scaled, dec.Num())
	scaled.Quo(scaled, dec.Denom())
	if scaled.Sign() == 0 {
		return text, nil
	}

	var sb strings.Builder
	sb.WriteString(text)
	sb.WriteByte('.')
	zero := digitText(0, base)
	for i := len(digits(scaled, base)); i < places; i++ {
		sb.WriteString(zero)
		if base > maxAlphaBase {
			sb.WriteString(groupSep)
		}
	}
	sb.WriteString(fractionText(scaled, base))
	return sb.String(), nil
}

// RadixToDecimal parses a numeral written in base, with an optional sign and
// an optional fractional part after '.'.
func RadixToDecimal(value string, base uint32) (float64, error) {
	if err := checkBase(base); err != nil {
		return 0, err
	}
	s := strings.TrimSpace(value)
	intPart, fracPart, _ := strings.Cut(s, ".")
	mag, neg := splitSign(intPart)
	if mag == "" && fracPart == "" {
		return 0, parseError(value, base, nil)
	}

	var whole float64
	if mag != "" {
		n, err := parseInteger(mag, base)
		if err != nil {
			return 0, parseError(value, base, err)
		}
		whole = intValue(n)
	}
	frac, err := parseFraction(fracPart, base)
	if err != nil {
		return 0, parseError(value, base, err)
	}
	if neg {
		return -(whole + frac), nil
	}
	return whole + frac, nil
}

func parseError(value string, base uint32, cause error) error {
	return errs.New(errs.PhaseParse, errs.KindInvalidInput).
		Detail("invalid base %d numeral %q", base, value).
		Value(value).
		Cause(cause).
		Build()
}

// FractionToUnit renders numer/denom as a mixed number in base, such as
// "1 1/2" for 3/2. A whole result has no fraction part and zero is "0".
// The denominator is shown as given, without reduction.
func FractionToUnit(numer, denom int32, base uint32) (string, error) {
	if err := checkBase(base); err != nil {
		return "", err
	}
	if denom == 0 {
		return "", errs.DivisionByZero(errs.PhaseConvert, "fraction")
	}
	return mixedNumber(int64(numer), int64(denom), base), nil
}

func mixedNumber(numer, denom int64, base uint32) string {
	neg := (numer < 0) != (denom < 0)
	n, d := abs64(numer), abs64(denom)
	units, rem := n/d, n%d

	var parts []string
	if units > 0 {
		parts = append(parts, integerText(big.NewInt(units), base, false))
	}
	if rem > 0 {
		parts = append(parts, integerText(big.NewInt(rem), base, false)+"/"+
			integerText(big.NewInt(d), base, false))
	}
	if len(parts) == 0 {
		return "0"
	}
	s := strings.Join(parts, " ")
	if neg {
		s = "-" + s
	}
	return s
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// RadixFractionToRadix evaluates "numer/denom", both integers written in
// base, and returns the quotient with its rendering in base.
func RadixFractionToRadix(value string, base uint32) (wasmradix.NumString, error) {
	if err := checkBase(base); err != nil {
		return wasmradix.NumString{}, err
	}
	ns, ds, ok := strings.Cut(value, "/")
	if !ok {
		return wasmradix.NumString{}, errs.New(errs.PhaseParse, errs.KindInvalidInput).
			Detail("fraction %q has no '/'", value).
			Value(value).
			Build()
	}
	n, err := parseInteger(ns, base)
	if err != nil {
		return wasmradix.NumString{}, parseError(value, base, err)
	}
	d, err := parseInteger(ds, base)
	if err != nil {
		return wasmradix.NumString{}, parseError(value, base, err)
	}
	if d.Sign() == 0 {
		return wasmradix.NumString{}, errs.DivisionByZero(errs.PhaseConvert, "fraction")
	}

	num := intValue(n) / intValue(d)
	text, err := DecimalToRadix(num, base)
	if err != nil {
		return wasmradix.NumString{}, err
	}
	return wasmradix.NumString{Num: num, Text: text}, nil
}
