package engine

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	errs "github.com/wippyai/wasm-radix/errors"
)

// Engine owns a wazero runtime. It is safe for concurrent use.
type Engine struct {
	runtime     wazero.Runtime
	memoryLimit uint32
}

// Config holds configuration for engine creation
type Config struct {
	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means default (65536 pages = 4GB).
	// 256 = 16MB, 1024 = 64MB, 4096 = 256MB
	MemoryLimitPages uint32

	// CloseOnContextDone makes a running guest call stop when its context
	// is cancelled or times out.
	CloseOnContextDone bool
}

// New creates an engine. A nil cfg uses defaults.
func New(ctx context.Context, cfg *Config) (*Engine, error) {
	runtimeCfg := wazero.NewRuntimeConfig()

	if cfg != nil {
		if cfg.MemoryLimitPages > 0 {
			runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
		}
		if cfg.CloseOnContextDone {
			runtimeCfg = runtimeCfg.WithCloseOnContextDone(true)
		}
	}

	e := &Engine{runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg)}
	if cfg != nil {
		e.memoryLimit = cfg.MemoryLimitPages
	}
	return e, nil
}

// Compile checks the binary header and compiles the module.
func (e *Engine) Compile(ctx context.Context, wasm []byte) (*Module, error) {
	if e.runtime == nil {
		return nil, errs.NotInitialized(errs.PhaseDecode, "engine")
	}
	if err := checkHeader(wasm); err != nil {
		return nil, err
	}

	l, err := scanSections(wasm)
	if err != nil {
		return nil, errs.InvalidFormat("decode sections", err)
	}
	// wazero rejects an over-limit memory while compiling; the binary itself
	// is well formed, so report it as a failure to instantiate.
	if e.memoryLimit > 0 && l.hasMemory && l.memoryMin > e.memoryLimit {
		return nil, errs.New(errs.PhaseInstantiate, errs.KindInstantiation).
			Detail("memory minimum of %d pages over limit of %d pages", l.memoryMin, e.memoryLimit).
			Value(l.memoryMin).
			Build()
	}

	compiled, err := e.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errs.InvalidFormat("compile module", err)
	}

	exports := newExportTable(compiled.ExportedFunctions())
	Logger().Debug("module compiled",
		zap.Int("size", len(wasm)),
		zap.Int("imports", len(l.imports)),
		zap.Int("exports", exports.Len()))

	return &Module{
		engine:   e,
		compiled: compiled,
		imports:  l.imports,
		exports:  exports,
	}, nil
}

// Close releases the runtime and every module instantiated from it.
func (e *Engine) Close(ctx context.Context) error {
	if e.runtime == nil {
		return nil
	}
	if err := e.runtime.Close(ctx); err != nil {
		return fmt.Errorf("close runtime: %w", err)
	}
	e.runtime = nil
	return nil
}
