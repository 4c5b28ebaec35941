// Package wasmtest assembles small core WebAssembly binaries for tests.
//
// The Builder covers the sections a wasm-bindgen output uses: types,
// imports, functions, one memory, globals, exports, start, code and active
// data segments. Function bodies are raw instruction bytes built with the
// op helpers in ops.go.
package wasmtest

import "fmt"

// ValType is a core value type.
type ValType byte

const (
	I32 ValType = 0x7f
	I64 ValType = 0x7e
	F32 ValType = 0x7d
	F64 ValType = 0x7c
)

// FuncType is a core function signature.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// Sig is shorthand for building a FuncType.
func Sig(params []ValType, results ...ValType) FuncType {
	return FuncType{Params: params, Results: results}
}

// Params is shorthand for a parameter list.
func Params(types ...ValType) []ValType {
	return types
}

func (ft FuncType) equal(other FuncType) bool {
	if len(ft.Params) != len(other.Params) || len(ft.Results) != len(other.Results) {
		return false
	}
	for i := range ft.Params {
		if ft.Params[i] != other.Params[i] {
			return false
		}
	}
	for i := range ft.Results {
		if ft.Results[i] != other.Results[i] {
			return false
		}
	}
	return true
}

const (
	externFunc   byte = 0x00
	externMemory byte = 0x02
	externGlobal byte = 0x03
)

type importEntry struct {
	module string
	name   string
	typ    uint32
}

type funcEntry struct {
	locals []ValType
	body   []byte
	typ    uint32
}

type globalEntry struct {
	typ     ValType
	mutable bool
	init    int64
}

type exportEntry struct {
	name  string
	kind  byte
	index uint32
}

type dataEntry struct {
	data   []byte
	offset uint32
}

// Builder accumulates module contents. Imports must be declared before
// functions so the function index space stays stable.
type Builder struct {
	start    *uint32
	types    []FuncType
	imports  []importEntry
	funcs    []funcEntry
	globals  []globalEntry
	exports  []exportEntry
	data     []dataEntry
	memPages uint32
	hasMem   bool
}

// New creates an empty module builder.
func New() *Builder {
	return &Builder{}
}

func (b *Builder) typeIndex(ft FuncType) uint32 {
	for i, t := range b.types {
		if t.equal(ft) {
			return uint32(i)
		}
	}
	b.types = append(b.types, ft)
	return uint32(len(b.types) - 1)
}

// ImportFunc declares a function import and returns its function index.
func (b *Builder) ImportFunc(module, name string, ft FuncType) uint32 {
	if len(b.funcs) > 0 {
		panic("wasmtest: imports must be declared before functions")
	}
	b.imports = append(b.imports, importEntry{module: module, name: name, typ: b.typeIndex(ft)})
	return uint32(len(b.imports) - 1)
}

// Func defines a function and returns its index. A non-empty name exports
// it. body must not include the trailing end opcode.
func (b *Builder) Func(name string, ft FuncType, locals []ValType, body ...[]byte) uint32 {
	var code []byte
	for _, part := range body {
		code = append(code, part...)
	}
	code = append(code, opEnd)

	b.funcs = append(b.funcs, funcEntry{typ: b.typeIndex(ft), locals: locals, body: code})
	idx := uint32(len(b.imports) + len(b.funcs) - 1)
	if name != "" {
		b.exports = append(b.exports, exportEntry{name: name, kind: externFunc, index: idx})
	}
	return idx
}

// Memory defines the module memory. A non-empty name exports it.
func (b *Builder) Memory(minPages uint32, name string) {
	b.hasMem = true
	b.memPages = minPages
	if name != "" {
		b.exports = append(b.exports, exportEntry{name: name, kind: externMemory, index: 0})
	}
}

// GlobalI32 defines an i32 global and returns its index. A non-empty name
// exports it.
func (b *Builder) GlobalI32(name string, value int32, mutable bool) uint32 {
	b.globals = append(b.globals, globalEntry{typ: I32, mutable: mutable, init: int64(value)})
	idx := uint32(len(b.globals) - 1)
	if name != "" {
		b.exports = append(b.exports, exportEntry{name: name, kind: externGlobal, index: idx})
	}
	return idx
}

// Data places bytes at offset in memory 0.
func (b *Builder) Data(offset uint32, data []byte) {
	b.data = append(b.data, dataEntry{offset: offset, data: data})
}

// Start marks a function as the module start function.
func (b *Builder) Start(funcIdx uint32) {
	b.start = &funcIdx
}

// Bytes encodes the module.
func (b *Builder) Bytes() []byte {
	var out writer
	out.write([]byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00})

	if len(b.types) > 0 {
		var s writer
		s.u32(uint32(len(b.types)))
		for _, t := range b.types {
			s.byte(0x60)
			s.u32(uint32(len(t.Params)))
			for _, p := range t.Params {
				s.byte(byte(p))
			}
			s.u32(uint32(len(t.Results)))
			for _, r := range t.Results {
				s.byte(byte(r))
			}
		}
		out.section(1, s.bytes())
	}

	if len(b.imports) > 0 {
		var s writer
		s.u32(uint32(len(b.imports)))
		for _, imp := range b.imports {
			s.name(imp.module)
			s.name(imp.name)
			s.byte(externFunc)
			s.u32(imp.typ)
		}
		out.section(2, s.bytes())
	}

	if len(b.funcs) > 0 {
		var s writer
		s.u32(uint32(len(b.funcs)))
		for _, f := range b.funcs {
			s.u32(f.typ)
		}
		out.section(3, s.bytes())
	}

	if b.hasMem {
		var s writer
		s.u32(1)
		s.byte(0x00)
		s.u32(b.memPages)
		out.section(5, s.bytes())
	}

	if len(b.globals) > 0 {
		var s writer
		s.u32(uint32(len(b.globals)))
		for _, g := range b.globals {
			s.byte(byte(g.typ))
			if g.mutable {
				s.byte(0x01)
			} else {
				s.byte(0x00)
			}
			s.byte(opI32Const)
			s.s64(g.init)
			s.byte(opEnd)
		}
		out.section(6, s.bytes())
	}

	if len(b.exports) > 0 {
		var s writer
		s.u32(uint32(len(b.exports)))
		for _, e := range b.exports {
			s.name(e.name)
			s.byte(e.kind)
			s.u32(e.index)
		}
		out.section(7, s.bytes())
	}

	if b.start != nil {
		var s writer
		s.u32(*b.start)
		out.section(8, s.bytes())
	}

	if len(b.funcs) > 0 {
		var s writer
		s.u32(uint32(len(b.funcs)))
		for _, f := range b.funcs {
			var fn writer
			groups := groupLocals(f.locals)
			fn.u32(uint32(len(groups)))
			for _, g := range groups {
				fn.u32(g.count)
				fn.byte(byte(g.typ))
			}
			fn.write(f.body)
			s.u32(uint32(len(fn.bytes())))
			s.write(fn.bytes())
		}
		out.section(10, s.bytes())
	}

	if len(b.data) > 0 {
		if !b.hasMem {
			panic(fmt.Sprintf("wasmtest: %d data segments without memory", len(b.data)))
		}
		var s writer
		s.u32(uint32(len(b.data)))
		for _, d := range b.data {
			s.u32(0)
			s.byte(opI32Const)
			s.s64(int64(int32(d.offset)))
			s.byte(opEnd)
			s.u32(uint32(len(d.data)))
			s.write(d.data)
		}
		out.section(11, s.bytes())
	}

	return out.bytes()
}

type localGroup struct {
	count uint32
	typ   ValType
}

func groupLocals(locals []ValType) []localGroup {
	var groups []localGroup
	for _, l := range locals {
		if n := len(groups); n > 0 && groups[n-1].typ == l {
			groups[n-1].count++
			continue
		}
		groups = append(groups, localGroup{count: 1, typ: l})
	}
	return groups
}
