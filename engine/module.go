package engine

import (
	"context"
	"strings"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	errs "github.com/wippyai/wasm-radix/errors"
)

// Module is a compiled core module. It can be instantiated any number of
// times and is safe for concurrent use.
type Module struct {
	engine   *Engine
	compiled wazero.CompiledModule
	exports  ExportTable
	imports  []Import
}

// Imports returns the module's declared imports in section order.
func (m *Module) Imports() []Import {
	return m.imports
}

// Exports returns the module's exported functions.
func (m *Module) Exports() ExportTable {
	return m.exports
}

// Instantiate creates an instance with the given import object. Every
// declared import must resolve; with the empty ImportObject this means the
// module must not declare any.
func (m *Module) Instantiate(ctx context.Context, imports ImportObject) (*Instance, error) {
	if m.engine == nil || m.engine.runtime == nil {
		return nil, errs.NotInitialized(errs.PhaseInstantiate, "engine")
	}
	if m.compiled == nil {
		return nil, errs.NotInitialized(errs.PhaseInstantiate, "module")
	}

	if missing := imports.unresolved(m.imports); len(missing) > 0 {
		cause := errs.NewMissingImportsError(missing)
		Logger().Debug("unresolved imports", zap.Strings("imports", missing))
		return nil, errs.New(errs.PhaseInstantiate, errs.KindMissingImport).
			Detail("%d import(s) unresolved: %s", len(missing), strings.Join(missing, ", ")).
			Value(len(missing)).
			Cause(cause).
			Build()
	}

	// Anonymous instances so one compiled module can back several of them.
	cfg := wazero.NewModuleConfig().WithName("").WithStartFunctions()
	inst, err := m.engine.runtime.InstantiateModule(ctx, m.compiled, cfg)
	if err != nil {
		return nil, errs.Instantiation(err)
	}

	i := &Instance{
		module:  inst,
		exports: m.exports,
	}
	if mem := inst.Memory(); mem != nil {
		i.memory = &Memory{mem: mem}
	}
	return i, nil
}

// Close releases the compiled code.
func (m *Module) Close(ctx context.Context) error {
	if m.compiled == nil {
		return nil
	}
	err := m.compiled.Close(ctx)
	m.compiled = nil
	return err
}
