package radix

import (
	"context"

	wasmradix "github.com/wippyai/wasm-radix"
)

// Native implements wasmradix.Converter in Go, without a wasm module. It
// serves as the reference the loaded bindings are compared against and as
// the fallback when no module is configured.
type Native struct{}

var _ wasmradix.Converter = Native{}

func (Native) DecimalToRadix(ctx context.Context, value float64, base uint32) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return DecimalToRadix(value, base)
}

func (Native) RadixToDecimal(ctx context.Context, value string, base uint32) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return RadixToDecimal(value, base)
}

func (Native) FractionToUnit(ctx context.Context, numer, denom int32, base uint32) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return FractionToUnit(numer, denom, base)
}

func (Native) RadixFractionToRadix(ctx context.Context, value string, base uint32) (wasmradix.NumString, error) {
	if err := ctx.Err(); err != nil {
		return wasmradix.NumString{}, err
	}
	return RadixFractionToRadix(value, base)
}

func (Native) FloatToFraction(ctx context.Context, value float64, precision int32) (wasmradix.Fraction, error) {
	if err := ctx.Err(); err != nil {
		return wasmradix.Fraction{}, err
	}
	return FloatToFraction(value, precision)
}
