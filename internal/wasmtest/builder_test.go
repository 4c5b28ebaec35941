package wasmtest

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

func TestBuilder_Header(t *testing.T) {
	got := New().Bytes()
	want := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("empty module = %x, want %x", got, want)
	}
}

func TestBuilder_TypeDedup(t *testing.T) {
	b := New()
	b.Func("a", Sig(Params(I32), I32), nil, LocalGet(0))
	b.Func("b", Sig(Params(I32), I32), nil, LocalGet(0))
	b.Func("c", Sig(nil), nil)
	if len(b.types) != 2 {
		t.Errorf("got %d types, want 2", len(b.types))
	}
}

func TestBuilder_ImportAfterFuncPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	b := New()
	b.Func("f", Sig(nil), nil)
	b.ImportFunc("env", "g", Sig(nil))
}

func TestGroupLocals(t *testing.T) {
	groups := groupLocals([]ValType{I32, I32, F64, I32})
	if len(groups) != 3 || groups[0].count != 2 || groups[1].typ != F64 {
		t.Errorf("groupLocals = %+v", groups)
	}
}

func TestFractionStruct_SignedNumerator(t *testing.T) {
	buf := fractionStruct(FixtureNumer)
	if got := int32(binary.LittleEndian.Uint32(buf[0:])); got != FixtureNumer {
		t.Errorf("numer = %d, want %d", got, FixtureNumer)
	}
	if got := int32(binary.LittleEndian.Uint32(buf[4:])); got != FixtureDenom {
		t.Errorf("denom = %d, want %d", got, FixtureDenom)
	}
}

func TestRadixModule_Compiles(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	variants := map[string][]Option{
		"default":   nil,
		"legacy":    {LegacyAllocator()},
		"start":     {WithStart()},
		"without":   {Without("fraction_to_unit", "fraction_numerator")},
		"signature": {WithSignature("radix_to_decimal", Sig(nil))},
		"imports":   {WithImport("env", "abort")},
	}

	for name, opts := range variants {
		t.Run(name, func(t *testing.T) {
			compiled, err := rt.CompileModule(ctx, RadixModule(opts...))
			if err != nil {
				t.Fatalf("CompileModule failed: %v", err)
			}
			defer compiled.Close(ctx)

			exports := compiled.ExportedFunctions()
			if _, ok := exports["decimal_to_radix"]; !ok {
				t.Error("decimal_to_radix not exported")
			}
		})
	}
}

func TestRadixModule_Behaviour(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	mod, err := rt.Instantiate(ctx, RadixModule(WithStart()))
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}
	mem := mod.Memory()

	if _, err := mod.ExportedFunction("__wbindgen_start").Call(ctx); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if v, _ := mem.ReadUint32Le(StartMarkerAddr); v != 1 {
		t.Errorf("start marker = %d", v)
	}

	res, err := mod.ExportedFunction("__wbindgen_malloc").Call(ctx, 8, 1)
	if err != nil || uint32(res[0]) != HeapBase {
		t.Fatalf("malloc = %v, %v", res, err)
	}
	res, _ = mod.ExportedFunction("__wbindgen_malloc").Call(ctx, 8, 1)
	if uint32(res[0]) != HeapBase+8 {
		t.Errorf("second malloc = %d", res[0])
	}

	res, err = mod.ExportedFunction("__wbindgen_add_to_stack_pointer").Call(ctx, api.EncodeI32(-16))
	if err != nil || uint32(res[0]) != StackTop-16 {
		t.Fatalf("add_to_stack_pointer = %v, %v", res, err)
	}
	retptr := uint32(res[0])

	if _, err := mod.ExportedFunction("decimal_to_radix").Call(ctx,
		api.EncodeU32(retptr), api.EncodeF64(26.75), api.EncodeU32(FixtureBase)); err != nil {
		t.Fatalf("decimal_to_radix failed: %v", err)
	}
	ptr, _ := mem.ReadUint32Le(retptr)
	n, _ := mem.ReadUint32Le(retptr + 4)
	if s, _ := mem.Read(ptr, n); string(s) != FixtureDecimalText {
		t.Errorf("decimal_to_radix text = %q", s)
	}

	if !mem.Write(HeapBase, []byte("abc")) {
		t.Fatal("write failed")
	}
	res, err = mod.ExportedFunction("radix_to_decimal").Call(ctx, api.EncodeU32(HeapBase), 3, 10)
	if err != nil || api.DecodeF64(res[0]) != 97030 {
		t.Errorf("radix_to_decimal = %v, %v", res, err)
	}

	res, _ = mod.ExportedFunction("float_to_fraction").Call(ctx, api.EncodeF64(-1.75), 4096)
	handle := res[0]
	res, _ = mod.ExportedFunction("fraction_numerator").Call(ctx, handle)
	if api.DecodeI32(res[0]) != FixtureNumer {
		t.Errorf("numerator = %d", api.DecodeI32(res[0]))
	}
	res, _ = mod.ExportedFunction("fraction_difference").Call(ctx, handle)
	if api.DecodeF64(res[0]) != FixtureDiff {
		t.Errorf("difference = %v", api.DecodeF64(res[0]))
	}
}
