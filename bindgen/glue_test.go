package bindgen

import (
	"context"
	"errors"
	"testing"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/wasm-radix/engine"
	errs "github.com/wippyai/wasm-radix/errors"
	"github.com/wippyai/wasm-radix/internal/wasmtest"
)

func newInstance(t *testing.T, opts ...wasmtest.Option) *engine.Instance {
	t.Helper()
	ctx := context.Background()
	e, err := engine.New(ctx, nil)
	if err != nil {
		t.Fatalf("engine.New failed: %v", err)
	}
	t.Cleanup(func() { e.Close(ctx) })

	mod, err := e.Compile(ctx, wasmtest.RadixModule(opts...))
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	inst, err := mod.Instantiate(ctx, engine.ImportObject{})
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}
	return inst
}

func newGlue(t *testing.T, opts ...wasmtest.Option) *Glue {
	t.Helper()
	g, err := New(newInstance(t, opts...))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return g
}

func TestNew_AllocatorArity(t *testing.T) {
	if newGlue(t).Legacy() {
		t.Error("current allocator detected as legacy")
	}
	if !newGlue(t, wasmtest.LegacyAllocator()).Legacy() {
		t.Error("legacy allocator not detected")
	}
	if newGlue(t).HasRealloc() {
		t.Error("fixture does not export realloc")
	}
}

func TestNew_MissingSupport(t *testing.T) {
	for _, name := range []string{ExportMalloc, ExportFree, ExportAddToStackPointer} {
		t.Run(name, func(t *testing.T) {
			_, err := New(newInstance(t, wasmtest.Without(name)))
			if !errors.Is(err, &errs.Error{Phase: errs.PhaseBind, Kind: errs.KindMissingExport}) {
				t.Errorf("got %v, want missing export", err)
			}
		})
	}
}

func TestNew_BadSupportSignature(t *testing.T) {
	inst := newInstance(t, wasmtest.WithSignature(ExportAddToStackPointer, wasmtest.Sig(nil)))
	_, err := New(inst)
	if !errors.Is(err, &errs.Error{Phase: errs.PhaseBind, Kind: errs.KindSignatureMismatch}) {
		t.Errorf("got %v, want signature mismatch", err)
	}
}

func TestPassString(t *testing.T) {
	for _, legacy := range []bool{false, true} {
		var opts []wasmtest.Option
		if legacy {
			opts = append(opts, wasmtest.LegacyAllocator())
		}
		g := newGlue(t, opts...)
		ctx := context.Background()

		ptr, n, err := g.PassString(ctx, "1v.c")
		if err != nil {
			t.Fatalf("PassString failed: %v", err)
		}
		if ptr != wasmtest.HeapBase || n != 4 {
			t.Errorf("PassString = (%d, %d)", ptr, n)
		}
		data, _ := g.Memory().Read(ptr, n)
		if string(data) != "1v.c" {
			t.Errorf("memory = %q", data)
		}

		// radix_to_decimal in the fixture: first byte * 1000 + len * base
		res, err := g.Call(ctx, "radix_to_decimal", api.EncodeU32(ptr), api.EncodeU32(n), api.EncodeU32(36))
		if err != nil {
			t.Fatalf("radix_to_decimal failed: %v", err)
		}
		if got := api.DecodeF64(res[0]); got != float64('1')*1000+4*36 {
			t.Errorf("radix_to_decimal = %v", got)
		}
	}
}

func TestCallString(t *testing.T) {
	g := newGlue(t)
	ctx := context.Background()

	s, err := g.CallString(ctx, "decimal_to_radix", api.EncodeF64(26.75), api.EncodeU32(wasmtest.FixtureBase))
	if err != nil {
		t.Fatalf("CallString failed: %v", err)
	}
	if s != wasmtest.FixtureDecimalText {
		t.Errorf("CallString = %q", s)
	}

	// the shadow stack must be back at the top
	res, err := g.Call(ctx, ExportAddToStackPointer, 0)
	if err != nil {
		t.Fatal(err)
	}
	if api.DecodeU32(res[0]) != wasmtest.StackTop {
		t.Errorf("stack pointer = %d, want %d", api.DecodeU32(res[0]), wasmtest.StackTop)
	}
}

func TestWithRetptr_RestoresOnError(t *testing.T) {
	g := newGlue(t)
	ctx := context.Background()

	_, err := g.CallString(ctx, "decimal_to_radix", api.EncodeF64(1), api.EncodeU32(7))
	if !errors.Is(err, &errs.Error{Phase: errs.PhaseCall, Kind: errs.KindTrap}) {
		t.Fatalf("got %v, want trap", err)
	}

	res, _ := g.Call(ctx, ExportAddToStackPointer, 0)
	if api.DecodeU32(res[0]) != wasmtest.StackTop {
		t.Errorf("stack pointer = %d after failed call", api.DecodeU32(res[0]))
	}

	sentinel := errors.New("host failure")
	_, _, err = g.WithRetptr(ctx, func(uint32) error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Errorf("got %v, want sentinel", err)
	}
}

func TestTakeString_InvalidUTF8(t *testing.T) {
	g := newGlue(t)
	ctx := context.Background()

	if err := g.Memory().Write(8192, []byte{0xff, 0xfe}); err != nil {
		t.Fatal(err)
	}
	_, err := g.TakeString(ctx, 8192, 2)
	if !errors.Is(err, &errs.Error{Phase: errs.PhaseCall, Kind: errs.KindInvalidUTF8}) {
		t.Errorf("got %v, want invalid utf8", err)
	}
}

func TestStart(t *testing.T) {
	ctx := context.Background()

	g := newGlue(t)
	ran, err := g.Start(ctx)
	if err != nil || ran {
		t.Errorf("Start without export = %v, %v", ran, err)
	}

	g = newGlue(t, wasmtest.WithStart())
	ran, err = g.Start(ctx)
	if err != nil || !ran {
		t.Fatalf("Start = %v, %v", ran, err)
	}
	if v, _ := g.Memory().ReadU32(wasmtest.StartMarkerAddr); v != 1 {
		t.Errorf("start marker = %d", v)
	}
}

func TestHandle(t *testing.T) {
	g := newGlue(t)
	ctx := context.Background()

	res, err := g.Call(ctx, "float_to_fraction", api.EncodeF64(-1.75), api.EncodeI32(4096))
	if err != nil {
		t.Fatal(err)
	}
	h, err := g.Handle(api.DecodeU32(res[0]), "__wbg_fraction_free")
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	numer, err := h.I32(ctx, "fraction_numerator")
	if err != nil || numer != wasmtest.FixtureNumer {
		t.Errorf("numerator = %d, %v", numer, err)
	}
	denom, err := h.I32(ctx, "fraction_denominator")
	if err != nil || denom != wasmtest.FixtureDenom {
		t.Errorf("denominator = %d, %v", denom, err)
	}
	diff, err := h.F64(ctx, "fraction_difference")
	if err != nil || diff != wasmtest.FixtureDiff {
		t.Errorf("difference = %v, %v", diff, err)
	}

	if err := h.Release(ctx); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if err := h.Release(ctx); err != nil {
		t.Errorf("second Release failed: %v", err)
	}
	if _, err := h.I32(ctx, "fraction_numerator"); !errors.Is(err, &errs.Error{Phase: errs.PhaseCall, Kind: errs.KindNotInitialized}) {
		t.Errorf("accessor after Release: got %v", err)
	}
}

func TestHandle_String(t *testing.T) {
	g := newGlue(t)
	ctx := context.Background()

	ptr, n, err := g.PassString(ctx, "1/2")
	if err != nil {
		t.Fatal(err)
	}
	res, err := g.Call(ctx, "radix_fraction_to_radix", api.EncodeU32(ptr), api.EncodeU32(n), api.EncodeU32(12))
	if err != nil {
		t.Fatal(err)
	}
	h, err := g.Handle(api.DecodeU32(res[0]), "__wbg_numstring_free")
	if err != nil {
		t.Fatal(err)
	}
	defer h.Release(ctx)

	s, err := h.String(ctx, "numstring_as_string")
	if err != nil || s != wasmtest.FixtureNumText {
		t.Errorf("as_string = %q, %v", s, err)
	}
	f, err := h.F64(ctx, "numstring_as_float")
	if err != nil || f != wasmtest.FixtureNum {
		t.Errorf("as_float = %v, %v", f, err)
	}
}

func TestHandle_Null(t *testing.T) {
	g := newGlue(t)
	if _, err := g.Handle(0, "__wbg_fraction_free"); err == nil {
		t.Error("null handle should be rejected")
	}
}
