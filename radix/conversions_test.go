package radix

import (
	"errors"
	"math"
	"math/big"
	"strings"
	"testing"

	errs "github.com/wippyai/wasm-radix/errors"
)

func wantKind(t *testing.T, err error, kind errs.Kind) {
	t.Helper()
	var e *errs.Error
	if !errors.As(err, &e) {
		t.Fatalf("error %v is not *errors.Error", err)
	}
	if e.Kind != kind {
		t.Errorf("kind = %s, want %s (%v)", e.Kind, kind, err)
	}
}

func TestDecimalToRadix(t *testing.T) {
	tests := []struct {
		value float64
		base  uint32
		want  string
	}{
		{1.5, 2, "1.1"},
		{2.166666666, 6, "2.1"},
		{0.5, 12, "0.6"},
		{0.33333333333, 12, "0.4"},
		{0.125, 16, "0.2"},
		{26.75, 20, "16.f"},
		{67.333333333333, 36, "1v.c"},
		{62.5, 60, "01:02.30"},
		{-0.75, 12, "-0.9"},
		{255, 16, "ff"},
		{-255, 16, "-ff"},
		{0, 7, "0"},
		{130.5, 120, "001:010.060"},
	}

	for _, tt := range tests {
		got, err := DecimalToRadix(tt.value, tt.base)
		if err != nil {
			t.Errorf("DecimalToRadix(%v, %d) failed: %v", tt.value, tt.base, err)
			continue
		}
		if got != tt.want {
			t.Errorf("DecimalToRadix(%v, %d) = %q, want %q", tt.value, tt.base, got, tt.want)
		}
	}
}

func TestDecimalToRadix_ExactScaling(t *testing.T) {
	got, err := DecimalToRadix(0.111111111, 12)
	if err != nil {
		t.Fatal(err)
	}
	if got != "0.14" {
		t.Errorf("0.111111111 in base 12 = %q, want 0.14", got)
	}

	got, err = DecimalToRadix(0.5, 255)
	if err != nil {
		t.Fatal(err)
	}
	if want := ".127:127:127:127:127:127:127:127"; !strings.HasSuffix(got, want) {
		t.Errorf("0.5 in base 255 = %q, want suffix %q", got, want)
	}
}

func TestDecimalToRadix_RepeatingDigits(t *testing.T) {
	got, err := DecimalToRadix(4.0/23.0, 36)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "0.69e34p") {
		t.Errorf("4/23 in base 36 = %q, want prefix 0.69e34p", got)
	}
}

func TestDecimalToRadix_Errors(t *testing.T) {
	for _, base := range []uint32{0, 1, 256} {
		_, err := DecimalToRadix(1, base)
		wantKind(t, err, errs.KindInvalidInput)
	}
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := DecimalToRadix(v, 10)
		wantKind(t, err, errs.KindInvalidInput)
	}
}

func TestRadixToDecimal(t *testing.T) {
	tests := []struct {
		value string
		base  uint32
		want  float64
	}{
		{"16.f", 20, 26.75},
		{"1v.c", 36, 67 + 12.0/36},
		{"1V.C", 36, 67 + 12.0/36},
		{"01:02.30", 60, 62.5},
		{"001:010.060", 120, 130.5},
		{"-0.9", 12, -0.75},
		{"+ff", 16, 255},
		{".8", 16, 0.5},
		{"1.100", 2, 1.5},
		{"  101  ", 2, 5},
	}

	for _, tt := range tests {
		got, err := RadixToDecimal(tt.value, tt.base)
		if err != nil {
			t.Errorf("RadixToDecimal(%q, %d) failed: %v", tt.value, tt.base, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("RadixToDecimal(%q, %d) = %v, want %v", tt.value, tt.base, got, tt.want)
		}
	}
}

func TestRadixToDecimal_Invalid(t *testing.T) {
	tests := []struct {
		value string
		base  uint32
	}{
		{"", 10},
		{"-", 10},
		{"2", 2},
		{"1.2", 2},
		{"1:60", 60},
		{"1.2.3", 10},
		{"z", 35},
	}
	for _, tt := range tests {
		_, err := RadixToDecimal(tt.value, tt.base)
		if err == nil {
			t.Errorf("RadixToDecimal(%q, %d) succeeded", tt.value, tt.base)
			continue
		}
		if !errors.Is(err, &errs.Error{Phase: errs.PhaseParse}) {
			t.Errorf("RadixToDecimal(%q, %d) phase: %v", tt.value, tt.base, err)
		}
	}
}

func TestFractionToUnit(t *testing.T) {
	tests := []struct {
		numer, denom int32
		base         uint32
		want         string
	}{
		{3, 2, 10, "1 1/2"},
		{13, 12, 12, "1 1/10"},
		{4, 2, 10, "2"},
		{1, 2, 2, "1/10"},
		{0, 5, 10, "0"},
		{-3, 2, 10, "-1 1/2"},
		{3, -2, 10, "-1 1/2"},
		{-3, -2, 10, "1 1/2"},
		{61, 60, 60, "01 01/01:00"},
	}
	for _, tt := range tests {
		got, err := FractionToUnit(tt.numer, tt.denom, tt.base)
		if err != nil {
			t.Errorf("FractionToUnit(%d, %d, %d) failed: %v", tt.numer, tt.denom, tt.base, err)
			continue
		}
		if got != tt.want {
			t.Errorf("FractionToUnit(%d, %d, %d) = %q, want %q", tt.numer, tt.denom, tt.base, got, tt.want)
		}
	}
}

func TestFractionToUnit_ZeroDenominator(t *testing.T) {
	_, err := FractionToUnit(1, 0, 10)
	wantKind(t, err, errs.KindDivisionByZero)
}

func TestRadixFractionToRadix(t *testing.T) {
	ns, err := RadixFractionToRadix("1/2", 12)
	if err != nil {
		t.Fatal(err)
	}
	if ns.AsFloat() != 0.5 || ns.AsString() != "0.6" {
		t.Errorf("got %+v", ns)
	}

	ns, err = RadixFractionToRadix("a / 2", 16)
	if err != nil {
		t.Fatal(err)
	}
	if ns.Num != 5 || ns.Text != "5" {
		t.Errorf("got %+v", ns)
	}
}

func TestRadixFractionToRadix_Errors(t *testing.T) {
	_, err := RadixFractionToRadix("12", 10)
	wantKind(t, err, errs.KindInvalidInput)

	_, err = RadixFractionToRadix("1/0", 10)
	wantKind(t, err, errs.KindDivisionByZero)

	_, err = RadixFractionToRadix("1/g", 16)
	wantKind(t, err, errs.KindInvalidInput)

	_, err = RadixFractionToRadix("1/2", 300)
	wantKind(t, err, errs.KindInvalidInput)
}

func TestFloatToFraction(t *testing.T) {
	tests := []struct {
		value        float64
		precision    int32
		numer, denom int32
		diff         float64
	}{
		{-1.75, 4096, -7, 4, 0},
		{0.5, 10, 1, 2, 0},
		{0.75, 512, 3, 4, 0},
		{3, 0, 3, 1, 0},
		{-2.9, 0, -2, 1, 0},
	}
	for _, tt := range tests {
		got, err := FloatToFraction(tt.value, tt.precision)
		if err != nil {
			t.Errorf("FloatToFraction(%v, %d) failed: %v", tt.value, tt.precision, err)
			continue
		}
		if got.Numerator() != tt.numer || got.Denominator() != tt.denom || got.Difference() != tt.diff {
			t.Errorf("FloatToFraction(%v, %d) = %+v, want %d/%d diff %v",
				tt.value, tt.precision, got, tt.numer, tt.denom, tt.diff)
		}
	}
}

func TestFloatToFraction_NearMiss(t *testing.T) {
	got, err := FloatToFraction(0.3333, 100)
	if err != nil {
		t.Fatal(err)
	}
	if got.Numer != 1 || got.Denom != 3 {
		t.Errorf("got %+v, want 1/3", got)
	}
	if d := got.Difference(); d <= 0 || d > 1.0/101 {
		t.Errorf("difference %v out of tolerance", d)
	}
}

func TestFloatToFraction_NaN(t *testing.T) {
	_, err := FloatToFraction(math.NaN(), 10)
	wantKind(t, err, errs.KindInvalidInput)
}

func TestFloatToFraction_Overflow(t *testing.T) {
	for _, v := range []float64{3e9, -3e9, 2147483647.5} {
		_, err := FloatToFraction(v, 10)
		wantKind(t, err, errs.KindOverflow)
	}

	f, err := FloatToFraction(2e9, 10)
	if err != nil {
		t.Fatalf("2e9: %v", err)
	}
	if f.Numer != 2000000000 || f.Denom != 1 {
		t.Errorf("2e9 = %d/%d", f.Numer, f.Denom)
	}
}

func TestDigitText(t *testing.T) {
	tests := []struct {
		d, base uint32
		want    string
	}{
		{7, 10, "7"},
		{35, 36, "z"},
		{10, 11, "a"},
		{5, 60, "05"},
		{59, 60, "59"},
		{5, 150, "005"},
		{123, 200, "123"},
	}
	for _, tt := range tests {
		if got := digitText(tt.d, tt.base); got != tt.want {
			t.Errorf("digitText(%d, %d) = %q, want %q", tt.d, tt.base, got, tt.want)
		}
	}
}

func TestFractionText_TrimsZeroGroups(t *testing.T) {
	n := big.NewInt(60 * 120 * 120)
	if got := fractionText(n, 120); got != "060" {
		t.Errorf("fractionText = %q, want 060", got)
	}
	// nine groups are cut to eight
	n = new(big.Int).Exp(big.NewInt(60), big.NewInt(8), nil)
	n.Add(n, big.NewInt(1))
	if got := fractionText(n, 60); got != "01" {
		t.Errorf("fractionText = %q, want 01", got)
	}
}

func TestExtractDecimals(t *testing.T) {
	tests := []struct {
		value float64
		want  *big.Rat
	}{
		{0.111111111, big.NewRat(1, 9)},
		{-2.75, big.NewRat(3, 4)},
		{0.5, big.NewRat(1, 2)},
		{7, new(big.Rat)},
		{0.1, big.NewRat(1, 10)},
	}
	for _, tt := range tests {
		if got := extractDecimals(tt.value); got.Cmp(tt.want) != 0 {
			t.Errorf("extractDecimals(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestScaleDigits(t *testing.T) {
	tests := map[uint32]int{2: 19, 12: 14, 20: 10, 36: 6, 60: 4, 255: 18}
	for base, want := range tests {
		if got := scaleDigits(base); got != want {
			t.Errorf("scaleDigits(%d) = %d, want %d", base, got, want)
		}
	}
}
