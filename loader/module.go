package loader

import (
	"context"

	"github.com/wippyai/wasm-radix/engine"
)

// Module is a loaded, bound instance of the radix module.
type Module struct {
	compiled *engine.Module
	inst     *engine.Instance
	bindings *Bindings
	source   string
	binary   []byte
}

// Exports returns the instance export table.
func (m *Module) Exports() engine.ExportTable {
	if m.inst == nil {
		return nil
	}
	return m.inst.Exports()
}

// Bindings returns the typed conversion calls.
func (m *Module) Bindings() *Bindings {
	return m.bindings
}

// Source returns where the binary came from.
func (m *Module) Source() string {
	return m.source
}

// Size returns the binary size in bytes.
func (m *Module) Size() int {
	return len(m.binary)
}

// Binary returns the fetched module bytes. Callers must not modify them.
func (m *Module) Binary() []byte {
	return m.binary
}

// Close releases the instance and the compiled module.
func (m *Module) Close(ctx context.Context) error {
	var firstErr error
	if m.inst != nil {
		if err := m.inst.Close(ctx); err != nil {
			firstErr = err
		}
	}
	if m.compiled != nil {
		if err := m.compiled.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
		m.compiled = nil
	}
	return firstErr
}
