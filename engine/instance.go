package engine

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	wasmradix "github.com/wippyai/wasm-radix"
	errs "github.com/wippyai/wasm-radix/errors"
)

// Instance is a running module. It is NOT thread-safe and should be used by
// a single goroutine at a time.
type Instance struct {
	module  api.Module
	memory  *Memory
	exports ExportTable
}

// Exports returns the export table. It is only available on an instance,
// that is, after instantiation succeeded.
func (i *Instance) Exports() ExportTable {
	return i.exports
}

// Function returns the named exported function.
func (i *Instance) Function(name string) (api.Function, error) {
	if i.module == nil {
		return nil, errs.NotInitialized(errs.PhaseCall, "instance")
	}
	fn := i.module.ExportedFunction(name)
	if fn == nil {
		return nil, errs.MissingExport(name)
	}
	return fn, nil
}

// Memory returns the instance's linear memory, or nil when the module
// defines none.
func (i *Instance) Memory() wasmradix.Memory {
	if i.memory == nil {
		return nil
	}
	return i.memory
}

// Call invokes an export with raw core values. A guest trap is reported as
// PhaseCall/KindTrap.
func (i *Instance) Call(ctx context.Context, name string, args ...uint64) ([]uint64, error) {
	fn, err := i.Function(name)
	if err != nil {
		return nil, err
	}
	results, err := fn.Call(ctx, args...)
	if err != nil {
		Logger().Debug("guest call failed", zap.String("export", name), zap.Error(err))
		return nil, errs.Trap(name, err)
	}
	return results, nil
}

// Closed reports whether Close has been called.
func (i *Instance) Closed() bool {
	return i.module == nil
}

// Close releases the instance. Closing twice is a no-op.
func (i *Instance) Close(ctx context.Context) error {
	if i.module == nil {
		return nil
	}
	err := i.module.Close(ctx)
	i.module = nil
	i.memory = nil
	return err
}
