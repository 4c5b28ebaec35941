package radix

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	errs "github.com/wippyai/wasm-radix/errors"
)

func TestExprToFloat(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"(24 / 2) + 5 * 7", 47},
		{"1 / 7", 1.0 / 7},
		{"4 ^ 0.5", 2},
		{"4 + 0.5", 4.5},
		{"-2^2", -4},
		{"2^-1", 0.5},
		{"2^3^2", 512},
		{"7 % 4", 3},
		{"sqrt(16) + abs(-2)", 6},
		{"max(1, 5, 3) - min(4, 2)", 3},
		{"atan2(1, 1) * 4", math.Pi},
		{"2 * pi", 2 * math.Pi},
		{"ln(e)", 1},
		{"1.5e2", 150},
		{".5 + .5", 1},
	}
	for _, tt := range tests {
		got, err := ExprToFloat(tt.expr)
		if err != nil {
			t.Errorf("ExprToFloat(%q) failed: %v", tt.expr, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("ExprToFloat(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

func TestExprToFloat_Invalid(t *testing.T) {
	for _, s := range []string{"", "1 +", "foo(1)", "sqrt(1, 2)", "(1", "x", "1 $ 2", "max()"} {
		_, err := ExprToFloat(s)
		if err == nil {
			t.Errorf("ExprToFloat(%q) succeeded", s)
			continue
		}
		if !errors.Is(err, &errs.Error{Phase: errs.PhaseParse, Kind: errs.KindInvalidInput}) {
			t.Errorf("ExprToFloat(%q) error %v", s, err)
		}
	}
}

func TestExprToRadix(t *testing.T) {
	got, err := ExprToRadix("12 ^ 8", 12)
	if err != nil {
		t.Fatal(err)
	}
	if got != "100000000" {
		t.Errorf("12 ^ 8 in base 12 = %q", got)
	}

	got, err = ExprToRadix("1 / 3", 12)
	if err != nil {
		t.Fatal(err)
	}
	if got != "0.4" {
		t.Errorf("1 / 3 in base 12 = %q", got)
	}

	got, err = ExprToRadix("1 / 7", 12)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "0.186a35186a35") {
		t.Errorf("1 / 7 in base 12 = %q", got)
	}

	if _, err := ExprToRadix("1 / 0", 12); err == nil {
		t.Error("expected error rendering infinity")
	}
	if _, err := ExprToRadix("1", 1); err == nil {
		t.Error("expected invalid base error")
	}
}

func TestFracExprToRational(t *testing.T) {
	r, err := FracExprToRational("3 / 2")
	if err != nil {
		t.Fatal(err)
	}
	if r.Display != "1 1/2" || r.Numer != 3 || r.Denom != 2 || r.Value != 1.5 {
		t.Errorf("got %+v", r)
	}

	for _, s := range []string{"3", "3/2/1", "a/2", "1/0", "1/"} {
		if _, err := FracExprToRational(s); err == nil {
			t.Errorf("FracExprToRational(%q) succeeded", s)
		}
	}
}

func TestApproximate(t *testing.T) {
	r, err := Approximate(0.75, 100)
	if err != nil {
		t.Fatal(err)
	}
	if r.Numer != 3 || r.Denom != 4 || r.Display != "3/4" || r.Precision != 100 || r.Difference != 0 {
		t.Errorf("got %+v", r)
	}
}

func TestNative(t *testing.T) {
	ctx := context.Background()
	var n Native

	s, err := n.DecimalToRadix(ctx, 26.75, 20)
	if err != nil || s != "16.f" {
		t.Errorf("DecimalToRadix = %q, %v", s, err)
	}
	f, err := n.RadixToDecimal(ctx, "16.f", 20)
	if err != nil || f != 26.75 {
		t.Errorf("RadixToDecimal = %v, %v", f, err)
	}
	s, err = n.FractionToUnit(ctx, 3, 2, 10)
	if err != nil || s != "1 1/2" {
		t.Errorf("FractionToUnit = %q, %v", s, err)
	}
	ns, err := n.RadixFractionToRadix(ctx, "1/2", 12)
	if err != nil || ns.Text != "0.6" {
		t.Errorf("RadixFractionToRadix = %+v, %v", ns, err)
	}
	fr, err := n.FloatToFraction(ctx, -1.75, 4096)
	if err != nil || fr.Numer != -7 || fr.Denom != 4 {
		t.Errorf("FloatToFraction = %+v, %v", fr, err)
	}
}

func TestNative_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var n Native
	if _, err := n.DecimalToRadix(ctx, 1, 10); !errors.Is(err, context.Canceled) {
		t.Errorf("DecimalToRadix err = %v", err)
	}
	if _, err := n.FloatToFraction(ctx, 1, 10); !errors.Is(err, context.Canceled) {
		t.Errorf("FloatToFraction err = %v", err)
	}
}
