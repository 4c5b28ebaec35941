package loader

import (
	"context"
	"math"
	"sync"

	"github.com/tetratelabs/wazero/api"

	wasmradix "github.com/wippyai/wasm-radix"
	"github.com/wippyai/wasm-radix/bindgen"
	errs "github.com/wippyai/wasm-radix/errors"
)

// Bindings calls the conversion exports of one instance. The instance is
// single-threaded, so calls are serialised.
type Bindings struct {
	glue *bindgen.Glue
	mu   sync.Mutex
}

var _ wasmradix.Converter = (*Bindings)(nil)

func checkBase(name string, base uint32) error {
	if !wasmradix.ValidBase(base) {
		e := errs.InvalidBase(errs.PhaseCall, base)
		e.Export = name
		return e
	}
	return nil
}

func (b *Bindings) DecimalToRadix(ctx context.Context, value float64, base uint32) (string, error) {
	if err := checkBase(wasmradix.ExportDecimalToRadix, base); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.glue.CallString(ctx, wasmradix.ExportDecimalToRadix, api.EncodeF64(value), api.EncodeU32(base))
}

func (b *Bindings) RadixToDecimal(ctx context.Context, value string, base uint32) (float64, error) {
	if err := checkBase(wasmradix.ExportRadixToDecimal, base); err != nil {
		return 0, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	ptr, n, err := b.glue.PassString(ctx, value)
	if err != nil {
		return 0, err
	}
	res, err := b.glue.Call(ctx, wasmradix.ExportRadixToDecimal, api.EncodeU32(ptr), api.EncodeU32(n), api.EncodeU32(base))
	if err != nil {
		return 0, err
	}
	return api.DecodeF64(res[0]), nil
}

func (b *Bindings) FractionToUnit(ctx context.Context, numer, denom int32, base uint32) (string, error) {
	if err := checkBase(wasmradix.ExportFractionToUnit, base); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.glue.CallString(ctx, wasmradix.ExportFractionToUnit,
		api.EncodeI32(numer), api.EncodeI32(denom), api.EncodeU32(base))
}

func (b *Bindings) RadixFractionToRadix(ctx context.Context, value string, base uint32) (wasmradix.NumString, error) {
	if err := checkBase(wasmradix.ExportRadixFractionToRadix, base); err != nil {
		return wasmradix.NumString{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	ptr, n, err := b.glue.PassString(ctx, value)
	if err != nil {
		return wasmradix.NumString{}, err
	}
	res, err := b.glue.Call(ctx, wasmradix.ExportRadixFractionToRadix, api.EncodeU32(ptr), api.EncodeU32(n), api.EncodeU32(base))
	if err != nil {
		return wasmradix.NumString{}, err
	}
	h, err := b.glue.Handle(api.DecodeU32(res[0]), exportNumStringFree)
	if err != nil {
		return wasmradix.NumString{}, err
	}
	defer h.Release(ctx)

	num, err := h.F64(ctx, exportNumStringFloat)
	if err != nil {
		return wasmradix.NumString{}, err
	}
	text, err := h.String(ctx, exportNumStringString)
	if err != nil {
		return wasmradix.NumString{}, err
	}
	return wasmradix.NumString{Num: num, Text: text}, nil
}

func (b *Bindings) FloatToFraction(ctx context.Context, value float64, precision int32) (wasmradix.Fraction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	res, err := b.glue.Call(ctx, wasmradix.ExportFloatToFraction, api.EncodeF64(value), api.EncodeI32(precision))
	if err != nil {
		return wasmradix.Fraction{}, err
	}
	h, err := b.glue.Handle(api.DecodeU32(res[0]), exportFractionFree)
	if err != nil {
		return wasmradix.Fraction{}, err
	}
	defer h.Release(ctx)

	var f wasmradix.Fraction
	if f.Numer, err = h.I32(ctx, exportFractionNumer); err != nil {
		return wasmradix.Fraction{}, err
	}
	if f.Denom, err = h.I32(ctx, exportFractionDenom); err != nil {
		return wasmradix.Fraction{}, err
	}
	if f.Diff, err = h.F64(ctx, exportFractionDiff); err != nil {
		return wasmradix.Fraction{}, err
	}
	// the guest saturates instead of failing
	if f.Numer == math.MaxInt32 || f.Numer == math.MinInt32 {
		return wasmradix.Fraction{}, errs.Overflow(errs.PhaseCall, value, "int32 numerator")
	}
	return f, nil
}
