package engine

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"

	errs "github.com/wippyai/wasm-radix/errors"
)

// Binary header constants.
const (
	magic       uint32 = 0x6D736100 // "\0asm"
	coreVersion uint16 = 0x01
	layerCore   uint16 = 0x00
	layerComp   uint16 = 0x01

	sectionImport byte = 2
	sectionMemory byte = 5
)

// Import descriptor kinds.
const (
	KindFunc   byte = 0
	KindTable  byte = 1
	KindMemory byte = 2
	KindGlobal byte = 3
	KindTag    byte = 4
)

var errShortRead = errors.New("unexpected end of section")

// checkHeader verifies the preamble before the binary is handed to wazero so
// that a component or a non-wasm payload gets a precise error.
func checkHeader(data []byte) error {
	if len(data) < 8 {
		return errs.InvalidFormat(fmt.Sprintf("binary is %d bytes, shorter than the 8 byte header", len(data)), nil)
	}
	if binary.LittleEndian.Uint32(data[0:4]) != magic {
		return errs.New(errs.PhaseDecode, errs.KindInvalidFormat).
			Detail("bad magic %x", data[0:4]).
			Value(data[0:4]).
			Build()
	}
	version := binary.LittleEndian.Uint16(data[4:6])
	layer := binary.LittleEndian.Uint16(data[6:8])
	if layer == layerComp {
		return errs.Unsupported(errs.PhaseDecode, "component model binaries cannot be instantiated with a core import object")
	}
	if layer != layerCore || version != coreVersion {
		return errs.New(errs.PhaseDecode, errs.KindInvalidFormat).
			Detail("unsupported binary version %d (layer %d)", version, layer).
			Value(version).
			Build()
	}
	return nil
}

// Import is a single entry of a module's import section.
type Import struct {
	Module string
	Name   string
	Kind   byte
}

// Key returns "module#name".
func (i Import) Key() string {
	return i.Module + "#" + i.Name
}

// KindName returns the text format keyword for the import kind.
func (i Import) KindName() string {
	switch i.Kind {
	case KindFunc:
		return "func"
	case KindTable:
		return "table"
	case KindMemory:
		return "memory"
	case KindGlobal:
		return "global"
	case KindTag:
		return "tag"
	}
	return fmt.Sprintf("kind(%d)", i.Kind)
}

// layout is what the engine needs to know about a binary before wazero
// compiles it.
type layout struct {
	imports []Import
	// memoryMin is the largest declared or imported memory minimum in pages.
	memoryMin uint32
	hasMemory bool
}

func (l *layout) memory(pages uint32) {
	l.hasMemory = true
	if pages > l.memoryMin {
		l.memoryMin = pages
	}
}

// scanSections walks the section list of a header-checked binary, decoding
// the import section and the memory minimums. Every import kind is reported,
// including globals and tables, which wazero does not expose on a compiled
// module.
func scanSections(data []byte) (*layout, error) {
	l := &layout{}
	r := &reader{data: data, pos: 8}
	for !r.eof() {
		id, err := r.byte()
		if err != nil {
			return nil, err
		}
		size, err := r.u32()
		if err != nil {
			return nil, err
		}
		body, err := r.bytes(int(size))
		if err != nil {
			return nil, err
		}
		switch id {
		case sectionImport:
			if err := l.parseImports(&reader{data: body}); err != nil {
				return nil, err
			}
		case sectionMemory:
			if err := l.parseMemories(&reader{data: body}); err != nil {
				return nil, err
			}
		}
	}
	return l, nil
}

func (l *layout) parseImports(r *reader) error {
	count, err := r.u32()
	if err != nil {
		return err
	}
	l.imports = make([]Import, 0, count)
	for i := uint32(0); i < count; i++ {
		module, err := r.name()
		if err != nil {
			return err
		}
		name, err := r.name()
		if err != nil {
			return err
		}
		kind, err := r.byte()
		if err != nil {
			return err
		}
		if kind == KindMemory {
			pages, err := r.limits()
			if err != nil {
				return fmt.Errorf("import %s#%s: %w", module, name, err)
			}
			l.memory(pages)
		} else if err := r.skipDesc(kind); err != nil {
			return fmt.Errorf("import %s#%s: %w", module, name, err)
		}
		l.imports = append(l.imports, Import{Module: module, Name: name, Kind: kind})
	}
	return nil
}

func (l *layout) parseMemories(r *reader) error {
	count, err := r.u32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		pages, err := r.limits()
		if err != nil {
			return fmt.Errorf("memory %d: %w", i, err)
		}
		l.memory(pages)
	}
	return nil
}

// reader is a position-tracking cursor over a byte slice.
type reader struct {
	data []byte
	pos  int
}

func (r *reader) eof() bool {
	return r.pos >= len(r.data)
}

func (r *reader) byte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, r.wrap(errShortRead)
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, r.wrap(errShortRead)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) u32() (uint32, error) {
	var result uint32
	var shift uint
	for {
		b, err := r.byte()
		if err != nil {
			return 0, err
		}
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 35 {
			return 0, r.wrap(errors.New("leb128: overflow"))
		}
	}
}

func (r *reader) name() (string, error) {
	n, err := r.u32()
	if err != nil {
		return "", err
	}
	b, err := r.bytes(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", r.wrap(errors.New("invalid UTF-8 in name"))
	}
	return string(b), nil
}

// limits reads a limits type and returns its minimum.
func (r *reader) limits() (uint32, error) {
	flags, err := r.byte()
	if err != nil {
		return 0, err
	}
	pages, err := r.u32()
	if err != nil {
		return 0, err
	}
	if flags&0x01 != 0 {
		if _, err := r.u32(); err != nil {
			return 0, err
		}
	}
	return pages, nil
}

func (r *reader) skipDesc(kind byte) error {
	switch kind {
	case KindFunc:
		_, err := r.u32()
		return err
	case KindTable:
		if _, err := r.byte(); err != nil {
			return err
		}
		_, err := r.limits()
		return err
	case KindMemory:
		_, err := r.limits()
		return err
	case KindGlobal:
		_, err := r.bytes(2)
		return err
	case KindTag:
		if _, err := r.byte(); err != nil {
			return err
		}
		_, err := r.u32()
		return err
	}
	return r.wrap(fmt.Errorf("unknown import kind %d", kind))
}

func (r *reader) wrap(err error) error {
	return fmt.Errorf("at position %d: %w", r.pos, err)
}
