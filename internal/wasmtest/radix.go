package wasmtest

import (
	"encoding/binary"
	"math"
)

// Values baked into the radix fixture. The fixture does not convert
// anything: each export returns canned data so tests can check marshalling.
const (
	FixtureBase        uint32  = 20
	FixtureDecimalText         = "16.f"
	FixtureUnitText            = "1 1/2"
	FixtureNum         float64 = 0.5
	FixtureNumText             = "0.6"
	FixtureNumer       int32   = -7
	FixtureDenom       int32   = 4
	FixtureDiff        float64 = 0.001

	// StartMarkerAddr holds 1 after __wbindgen_start ran.
	StartMarkerAddr uint32 = 2048
	// HeapBase is where the bump allocator starts.
	HeapBase uint32 = 4096
	// StackTop is the initial shadow stack pointer.
	StackTop uint32 = 65536
)

const (
	addrDecimalText uint32 = 1024
	addrUnitText    uint32 = 1040
	addrNumString   uint32 = 1056
	addrNumText     uint32 = 1088
	addrFraction    uint32 = 1104
)

type config struct {
	without     map[string]bool
	signatures  map[string]FuncType
	imports     [][2]string
	memoryPages uint32
	numer       int32
	legacyAlloc bool
	start       bool
	startTrap   bool
}

// Option customizes the radix fixture.
type Option func(*config)

// Without drops the named exports.
func Without(names ...string) Option {
	return func(c *config) {
		for _, n := range names {
			c.without[n] = true
		}
	}
}

// WithSignature replaces the named export with a trapping function of ft.
func WithSignature(name string, ft FuncType) Option {
	return func(c *config) {
		c.signatures[name] = ft
	}
}

// WithImport adds a () -> () function import.
func WithImport(module, name string) Option {
	return func(c *config) {
		c.imports = append(c.imports, [2]string{module, name})
	}
}

// WithMemoryPages sets the minimum size of the exported memory.
func WithMemoryPages(pages uint32) Option {
	return func(c *config) {
		c.memoryPages = pages
	}
}

// WithFractionNumer replaces FixtureNumer in the fraction float_to_fraction
// returns.
func WithFractionNumer(n int32) Option {
	return func(c *config) {
		c.numer = n
	}
}

// LegacyAllocator uses the pre-0.2.84 wasm-bindgen allocator signatures
// malloc(size) and free(ptr, len).
func LegacyAllocator() Option {
	return func(c *config) {
		c.legacyAlloc = true
	}
}

// WithStart exports __wbindgen_start, which writes 1 to StartMarkerAddr.
func WithStart() Option {
	return func(c *config) {
		c.start = true
	}
}

// WithStartTrap adds a start section that traps during instantiation.
func WithStartTrap() Option {
	return func(c *config) {
		c.startTrap = true
	}
}

// RadixModule builds a module with the export table of a wasm-bindgen
// build of the radix crate.
func RadixModule(opts ...Option) []byte {
	cfg := &config{
		without:     make(map[string]bool),
		signatures:  make(map[string]FuncType),
		memoryPages: 1,
		numer:       FixtureNumer,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	b := New()
	for _, imp := range cfg.imports {
		b.ImportFunc(imp[0], imp[1], Sig(nil))
	}

	b.Memory(cfg.memoryPages, "memory")
	sp := b.GlobalI32("", int32(StackTop), true)
	heap := b.GlobalI32("", int32(HeapBase), true)

	def := func(name string, ft FuncType, body ...[]byte) {
		if cfg.without[name] {
			return
		}
		if alt, ok := cfg.signatures[name]; ok {
			b.Func(name, alt, nil, Unreachable)
			return
		}
		b.Func(name, ft, nil, body...)
	}

	// conversion exports
	def("decimal_to_radix", Sig(Params(I32, F64, I32)),
		LocalGet(2), I32Const(int32(FixtureBase)), I32Ne, TrapIf(),
		LocalGet(0), I32Const(int32(addrDecimalText)), I32Store(0),
		LocalGet(0), I32Const(int32(len(FixtureDecimalText))), I32Store(4),
	)
	def("radix_to_decimal", Sig(Params(I32, I32, I32), F64),
		LocalGet(0), I32Load8U(0), I32Const(1000), I32Mul,
		LocalGet(1), LocalGet(2), I32Mul,
		I32Add, F64ConvertI32S,
	)
	def("fraction_to_unit", Sig(Params(I32, I32, I32, I32)),
		LocalGet(0), I32Const(int32(addrUnitText)), I32Store(0),
		LocalGet(0), I32Const(int32(len(FixtureUnitText))), I32Store(4),
	)
	def("radix_fraction_to_radix", Sig(Params(I32, I32, I32), I32),
		I32Const(int32(addrNumString)),
	)
	def("float_to_fraction", Sig(Params(F64, I32), I32),
		I32Const(int32(addrFraction)),
	)

	// struct accessors
	def("fraction_numerator", Sig(Params(I32), I32), LocalGet(0), I32Load(0))
	def("fraction_denominator", Sig(Params(I32), I32), LocalGet(0), I32Load(4))
	def("fraction_difference", Sig(Params(I32), F64), LocalGet(0), F64Load(8))
	def("__wbg_fraction_free", Sig(Params(I32)))
	def("numstring_as_float", Sig(Params(I32), F64), LocalGet(0), F64Load(0))
	def("numstring_as_string", Sig(Params(I32, I32)),
		LocalGet(0), LocalGet(1), I32Load(8), I32Store(0),
		LocalGet(0), LocalGet(1), I32Load(12), I32Store(4),
	)
	def("__wbg_numstring_free", Sig(Params(I32)))

	// runtime support
	bump := [][]byte{GlobalGet(heap), GlobalGet(heap), LocalGet(0), I32Add, GlobalSet(heap)}
	if cfg.legacyAlloc {
		def("__wbindgen_malloc", Sig(Params(I32), I32), bump...)
		def("__wbindgen_free", Sig(Params(I32, I32)))
	} else {
		def("__wbindgen_malloc", Sig(Params(I32, I32), I32), bump...)
		def("__wbindgen_free", Sig(Params(I32, I32, I32)))
	}
	def("__wbindgen_add_to_stack_pointer", Sig(Params(I32), I32),
		GlobalGet(sp), LocalGet(0), I32Add, GlobalSet(sp), GlobalGet(sp),
	)

	if cfg.start {
		def("__wbindgen_start", Sig(nil),
			I32Const(int32(StartMarkerAddr)), I32Const(1), I32Store(0),
		)
	}
	if cfg.startTrap {
		b.Start(b.Func("", Sig(nil), nil, Unreachable))
	}

	b.Data(addrDecimalText, []byte(FixtureDecimalText))
	b.Data(addrUnitText, []byte(FixtureUnitText))
	b.Data(addrNumString, numStringStruct())
	b.Data(addrNumText, []byte(FixtureNumText))
	b.Data(addrFraction, fractionStruct(cfg.numer))

	return b.Bytes()
}

func numStringStruct() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf[0:], math.Float64bits(FixtureNum))
	binary.LittleEndian.PutUint32(buf[8:], addrNumText)
	binary.LittleEndian.PutUint32(buf[12:], uint32(len(FixtureNumText)))
	return buf
}

func fractionStruct(numer int32) []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:], uint32(numer))
	binary.LittleEndian.PutUint32(buf[4:], uint32(FixtureDenom))
	binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(FixtureDiff))
	return buf
}

// AddModule is the two-export module used for engine level tests:
// add(i32, i32) -> i32 and an exported memory.
func AddModule() []byte {
	b := New()
	b.Memory(1, "memory")
	b.Func("add", Sig(Params(I32, I32), I32), nil, LocalGet(0), LocalGet(1), I32Add)
	return b.Bytes()
}
