package expr

import (
	"errors"
	"math"
	"testing"
)

func TestEval_Precedence(t *testing.T) {
	tests := map[string]float64{
		"1 + 2 * 3":    7,
		"(1 + 2) * 3":  9,
		"10 - 4 - 3":   3,
		"64 / 4 / 2":   8,
		"-3 + 5":       2,
		"--3":          3,
		"+3":           3,
		"-2 ^ 2":       -4,
		"2 ^ 3 ^ 2":    512,
		"2 ^ -2":       0.25,
		"10 % 4 * 2":   4,
		"signum(-3)":   -1,
		"floor(2.7)":   2,
		"round(-2.5)":  -3,
		"log10(1000)":  3,
		"cos(0) + e^0": 2,
	}
	for src, want := range tests {
		got, err := Eval(src)
		if err != nil {
			t.Errorf("Eval(%q) failed: %v", src, err)
			continue
		}
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("Eval(%q) = %v, want %v", src, got, want)
		}
	}
}

func TestEval_DivisionByZero(t *testing.T) {
	got, err := Eval("1 / 0")
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(got, 1) {
		t.Errorf("1 / 0 = %v", got)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		src string
		pos int
	}{
		{"1 +", 3},
		{"2 3", 2},
		{"(1", 2},
		{"y + 1", 0},
		{"1 # 2", 2},
		{"nope(1)", 0},
		{"atan2(1)", 0},
		{"min(1,", 6},
	}
	for _, tt := range tests {
		_, err := Parse(tt.src)
		var e *Error
		if !errors.As(err, &e) {
			t.Errorf("Parse(%q) err = %v, want *Error", tt.src, err)
			continue
		}
		if e.Pos != tt.pos {
			t.Errorf("Parse(%q) pos = %d, want %d (%v)", tt.src, e.Pos, tt.pos, e)
		}
	}
}

func TestExpr_Reuse(t *testing.T) {
	e, err := Parse("sqrt(2) * sqrt(2)")
	if err != nil {
		t.Fatal(err)
	}
	if e.String() != "sqrt(2) * sqrt(2)" {
		t.Errorf("String() = %q", e.String())
	}
	a, b := e.Eval(), e.Eval()
	if a != b || math.Abs(a-2) > 1e-12 {
		t.Errorf("Eval = %v, %v", a, b)
	}
}
