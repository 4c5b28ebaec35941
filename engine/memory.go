package engine

import (
	"github.com/tetratelabs/wazero/api"

	wasmradix "github.com/wippyai/wasm-radix"
	errs "github.com/wippyai/wasm-radix/errors"
)

// Memory wraps wazero memory to implement wasmradix.Memory
type Memory struct {
	mem api.Memory
}

// Read returns a view of guest memory. The view is invalidated when the
// guest grows its memory; copy it before calling back into the guest.
func (m *Memory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errs.OutOfBounds(errs.PhaseCall, offset, length)
	}
	return data, nil
}

func (m *Memory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return errs.OutOfBounds(errs.PhaseCall, offset, uint32(len(data)))
	}
	return nil
}

func (m *Memory) ReadU32(offset uint32) (uint32, error) {
	val, ok := m.mem.ReadUint32Le(offset)
	if !ok {
		return 0, errs.OutOfBounds(errs.PhaseCall, offset, 4)
	}
	return val, nil
}

func (m *Memory) ReadU64(offset uint32) (uint64, error) {
	val, ok := m.mem.ReadUint64Le(offset)
	if !ok {
		return 0, errs.OutOfBounds(errs.PhaseCall, offset, 8)
	}
	return val, nil
}

func (m *Memory) ReadF64(offset uint32) (float64, error) {
	val, ok := m.mem.ReadFloat64Le(offset)
	if !ok {
		return 0, errs.OutOfBounds(errs.PhaseCall, offset, 8)
	}
	return val, nil
}

func (m *Memory) WriteU32(offset uint32, value uint32) error {
	if !m.mem.WriteUint32Le(offset, value) {
		return errs.OutOfBounds(errs.PhaseCall, offset, 4)
	}
	return nil
}

func (m *Memory) WriteU64(offset uint32, value uint64) error {
	if !m.mem.WriteUint64Le(offset, value) {
		return errs.OutOfBounds(errs.PhaseCall, offset, 8)
	}
	return nil
}

// Size returns the memory size in bytes.
func (m *Memory) Size() uint32 {
	if m.mem == nil {
		return 0
	}
	return m.mem.Size()
}

var _ wasmradix.Memory = (*Memory)(nil)
var _ wasmradix.MemorySizer = (*Memory)(nil)
