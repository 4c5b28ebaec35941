package bindgen

import (
	"context"
	"unicode/utf8"

	"github.com/tetratelabs/wazero/api"

	wasmradix "github.com/wippyai/wasm-radix"
	"github.com/wippyai/wasm-radix/engine"
	errs "github.com/wippyai/wasm-radix/errors"
)

// Runtime support exports emitted by wasm-bindgen.
const (
	ExportMemory            = "memory"
	ExportMalloc            = "__wbindgen_malloc"
	ExportFree              = "__wbindgen_free"
	ExportRealloc           = "__wbindgen_realloc"
	ExportAddToStackPointer = "__wbindgen_add_to_stack_pointer"
	ExportStart             = "__wbindgen_start"
)

// retAreaSize is the shadow stack space reserved for a (ptr, len) result.
const retAreaSize = 16

// Instance is the part of an engine instance the glue needs.
type Instance interface {
	Call(ctx context.Context, name string, args ...uint64) ([]uint64, error)
	Memory() wasmradix.Memory
	Exports() engine.ExportTable
}

// Glue implements the host side of the wasm-bindgen ABI over one instance.
// Like the instance it is not safe for concurrent use.
type Glue struct {
	inst Instance
	mem  wasmradix.Memory

	// Builds before wasm-bindgen 0.2.84 pass no alignment.
	legacyMalloc bool
	legacyFree   bool
	hasRealloc   bool
}

var (
	i32 = api.ValueTypeI32

	mallocSig       = [2][]api.ValueType{{i32, i32}, {i32}}
	mallocLegacySig = [2][]api.ValueType{{i32}, {i32}}
	freeSig         = [2][]api.ValueType{{i32, i32, i32}, nil}
	freeLegacySig   = [2][]api.ValueType{{i32, i32}, nil}
	stackSig        = [2][]api.ValueType{{i32}, {i32}}
)

// New resolves the runtime support exports of inst.
func New(inst Instance) (*Glue, error) {
	mem := inst.Memory()
	if mem == nil {
		return nil, errs.MissingExport(ExportMemory)
	}
	g := &Glue{inst: inst, mem: mem}
	exports := inst.Exports()

	malloc, ok := exports.Lookup(ExportMalloc)
	switch {
	case !ok:
		return nil, errs.MissingExport(ExportMalloc)
	case malloc.Matches(mallocSig[0], mallocSig[1]):
	case malloc.Matches(mallocLegacySig[0], mallocLegacySig[1]):
		g.legacyMalloc = true
	default:
		return nil, errs.SignatureMismatch(ExportMalloc,
			engine.FormatSignature(mallocSig[0], mallocSig[1]), malloc.Signature())
	}

	free, ok := exports.Lookup(ExportFree)
	switch {
	case !ok:
		return nil, errs.MissingExport(ExportFree)
	case free.Matches(freeSig[0], freeSig[1]):
	case free.Matches(freeLegacySig[0], freeLegacySig[1]):
		g.legacyFree = true
	default:
		return nil, errs.SignatureMismatch(ExportFree,
			engine.FormatSignature(freeSig[0], freeSig[1]), free.Signature())
	}

	stack, ok := exports.Lookup(ExportAddToStackPointer)
	if !ok {
		return nil, errs.MissingExport(ExportAddToStackPointer)
	}
	if !stack.Matches(stackSig[0], stackSig[1]) {
		return nil, errs.SignatureMismatch(ExportAddToStackPointer,
			engine.FormatSignature(stackSig[0], stackSig[1]), stack.Signature())
	}

	_, g.hasRealloc = exports.Lookup(ExportRealloc)
	return g, nil
}

// Legacy reports whether the module uses the alignment-less allocator.
func (g *Glue) Legacy() bool {
	return g.legacyMalloc || g.legacyFree
}

// HasRealloc reports whether __wbindgen_realloc is exported.
func (g *Glue) HasRealloc() bool {
	return g.hasRealloc
}

// Memory returns the instance memory.
func (g *Glue) Memory() wasmradix.Memory {
	return g.mem
}

// Start runs __wbindgen_start when the module exports it.
func (g *Glue) Start(ctx context.Context) (bool, error) {
	if _, ok := g.inst.Exports().Lookup(ExportStart); !ok {
		return false, nil
	}
	if _, err := g.inst.Call(ctx, ExportStart); err != nil {
		return true, err
	}
	return true, nil
}

// Malloc allocates size bytes in guest memory.
func (g *Glue) Malloc(ctx context.Context, size, align uint32) (uint32, error) {
	args := []uint64{api.EncodeU32(size), api.EncodeU32(align)}
	if g.legacyMalloc {
		args = args[:1]
	}
	res, err := g.inst.Call(ctx, ExportMalloc, args...)
	if err != nil {
		return 0, err
	}
	ptr := api.DecodeU32(res[0])
	if ptr == 0 && size > 0 {
		return 0, errs.New(errs.PhaseCall, errs.KindOutOfBounds).
			Export(ExportMalloc).
			Detail("allocation of %d bytes returned null", size).
			Value(size).
			Build()
	}
	return ptr, nil
}

// Free releases a guest allocation.
func (g *Glue) Free(ctx context.Context, ptr, size, align uint32) error {
	args := []uint64{api.EncodeU32(ptr), api.EncodeU32(size), api.EncodeU32(align)}
	if g.legacyFree {
		args = args[:2]
	}
	_, err := g.inst.Call(ctx, ExportFree, args...)
	return err
}

// PassString copies s into a fresh guest allocation and returns the
// (ptr, len) pair to pass as arguments. The callee takes ownership.
func (g *Glue) PassString(ctx context.Context, s string) (uint32, uint32, error) {
	n := uint32(len(s))
	ptr, err := g.Malloc(ctx, n, 1)
	if err != nil {
		return 0, 0, err
	}
	if n > 0 {
		if err := g.mem.Write(ptr, []byte(s)); err != nil {
			return 0, 0, err
		}
	}
	return ptr, n, nil
}

// WithRetptr reserves a return area on the shadow stack, calls fn with its
// address and reads back the (ptr, len) pair the callee stored there. The
// stack pointer is restored even when fn fails.
func (g *Glue) WithRetptr(ctx context.Context, fn func(retptr uint32) error) (ptr, n uint32, err error) {
	res, err := g.inst.Call(ctx, ExportAddToStackPointer, api.EncodeI32(-retAreaSize))
	if err != nil {
		return 0, 0, err
	}
	retptr := api.DecodeU32(res[0])

	defer func() {
		if _, rerr := g.inst.Call(ctx, ExportAddToStackPointer, api.EncodeI32(retAreaSize)); rerr != nil && err == nil {
			err = rerr
		}
	}()

	if err = fn(retptr); err != nil {
		return 0, 0, err
	}
	if ptr, err = g.mem.ReadU32(retptr); err != nil {
		return 0, 0, err
	}
	if n, err = g.mem.ReadU32(retptr + 4); err != nil {
		return 0, 0, err
	}
	return ptr, n, nil
}

// TakeString copies a guest-owned string out of memory and frees it.
func (g *Glue) TakeString(ctx context.Context, ptr, n uint32) (string, error) {
	data, err := g.mem.Read(ptr, n)
	if err != nil {
		return "", err
	}
	s := string(data)
	if err := g.Free(ctx, ptr, n, 1); err != nil {
		return "", err
	}
	if !utf8.ValidString(s) {
		return "", errs.InvalidUTF8(errs.PhaseCall, nil, []byte(s))
	}
	return s, nil
}

// CallString invokes an export that returns a string through a retptr.
// args follow the retptr.
func (g *Glue) CallString(ctx context.Context, name string, args ...uint64) (string, error) {
	ptr, n, err := g.WithRetptr(ctx, func(retptr uint32) error {
		_, err := g.inst.Call(ctx, name, append([]uint64{api.EncodeU32(retptr)}, args...)...)
		return err
	})
	if err != nil {
		return "", err
	}
	return g.TakeString(ctx, ptr, n)
}

// Call invokes an export with raw core values.
func (g *Glue) Call(ctx context.Context, name string, args ...uint64) ([]uint64, error) {
	return g.inst.Call(ctx, name, args...)
}
