package loader

import (
	"testing"

	"github.com/wippyai/wasm-radix/engine"
)

func TestExportSpec_CoreSignature(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"decimal_to_radix", "(i32, f64, i32) -> ()"},
		{"float_to_fraction", "(f64, i32) -> (i32)"},
		{"fraction_to_unit", "(i32, i32, i32, i32) -> ()"},
		{"radix_fraction_to_radix", "(i32, i32, i32) -> (i32)"},
		{"radix_to_decimal", "(i32, i32, i32) -> (f64)"},
		{"fraction_numerator", "(i32) -> (i32)"},
		{"fraction_difference", "(i32) -> (f64)"},
		{"numstring_as_string", "(i32, i32) -> ()"},
		{"__wbg_numstring_free", "(i32) -> ()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, ok := LookupSpec(tt.name)
			if !ok {
				t.Fatalf("no spec for %s", tt.name)
			}
			params, results, err := spec.CoreSignature()
			if err != nil {
				t.Fatalf("CoreSignature failed: %v", err)
			}
			if got := engine.FormatSignature(params, results); got != tt.want {
				t.Errorf("CoreSignature = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestExportSpec_WIT(t *testing.T) {
	tests := map[string]string{
		"float_to_fraction":       "func(dec-val: f64, precision: s32) -> fraction",
		"radix_fraction_to_radix": "func(num-string: string, base: u32) -> num-string",
		"fraction_to_unit":        "func(numer: s32, denom: s32, base: u32) -> string",
		"__wbg_fraction_free":     "func(self: fraction)",
	}
	for name, want := range tests {
		spec, _ := LookupSpec(name)
		if got := spec.WIT(); got != want {
			t.Errorf("%s WIT() = %q, want %q", name, got, want)
		}
	}
}

func TestLookupSpec_Unknown(t *testing.T) {
	if _, ok := LookupSpec("radix_to_roman"); ok {
		t.Error("unexpected spec")
	}
}

func TestRequiredExports_Complete(t *testing.T) {
	if len(RequiredExports) != 5 {
		t.Fatalf("got %d required exports, want 5", len(RequiredExports))
	}
	seen := make(map[string]bool)
	for _, s := range RequiredExports {
		if seen[s.Name] {
			t.Errorf("duplicate spec %s", s.Name)
		}
		seen[s.Name] = true
	}
}
