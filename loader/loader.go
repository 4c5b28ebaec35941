package loader

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	wasmradix "github.com/wippyai/wasm-radix"
	"github.com/wippyai/wasm-radix/bindgen"
	"github.com/wippyai/wasm-radix/engine"
	errs "github.com/wippyai/wasm-radix/errors"
	"github.com/wippyai/wasm-radix/fetch"
)

const tracerName = "github.com/wippyai/wasm-radix/loader"

// Config holds loader configuration
type Config struct {
	// Source is the module location: URL, s3://bucket/key or path.
	// Empty means fetch.DefaultModuleName.
	Source string

	// BaseURL resolves a relative Source.
	BaseURL string

	// DiagnosticExport is the export Run writes to the log.
	// Empty means decimal_to_radix.
	DiagnosticExport string

	UserAgent string
	S3        fetch.S3Options
	Engine    engine.Config
	Timeout   time.Duration
	MaxBytes  int64
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger for load progress. It also receives the Run
// diagnostic unless WithDiagnostic is given.
func WithLogger(l *zap.Logger) Option {
	return func(ld *Loader) {
		ld.logger = l
	}
}

// WithDiagnostic sets the logger Run writes the export entry to. Give it a
// core that always enables Info when the entry must not be filtered by the
// configured log level.
func WithDiagnostic(l *zap.Logger) Option {
	return func(ld *Loader) {
		ld.diagnostic = l
	}
}

// WithTracer sets the tracer used for load spans.
func WithTracer(t trace.Tracer) Option {
	return func(ld *Loader) {
		ld.tracer = t
	}
}

// WithSource overrides the source built from Config.Source.
func WithSource(s fetch.Source) Option {
	return func(ld *Loader) {
		ld.source = s
	}
}

// WithHTTPClient sets the client used for HTTP sources.
func WithHTTPClient(c *http.Client) Option {
	return func(ld *Loader) {
		ld.client = c
	}
}

// Loader runs the load chain: fetch, compile, instantiate with an empty
// import object, validate and bind the export table.
type Loader struct {
	source     fetch.Source
	tracer     trace.Tracer
	engine     *engine.Engine
	logger     *zap.Logger
	diagnostic *zap.Logger
	client     *http.Client
	cfg        Config
}

// New creates a Loader and its engine.
func New(ctx context.Context, cfg Config, opts ...Option) (*Loader, error) {
	l := &Loader{cfg: cfg}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = zap.NewNop()
	}
	if l.diagnostic == nil {
		l.diagnostic = l.logger
	}
	if l.tracer == nil {
		l.tracer = otel.Tracer(tracerName)
	}
	if l.client == nil && cfg.Timeout > 0 {
		l.client = &http.Client{Timeout: cfg.Timeout}
	}

	if l.source == nil {
		src, err := fetch.Open(cfg.Source, fetch.Options{
			BaseURL:   cfg.BaseURL,
			Client:    l.client,
			UserAgent: cfg.UserAgent,
			MaxBytes:  cfg.MaxBytes,
			S3:        cfg.S3,
		})
		if err != nil {
			return nil, err
		}
		l.source = src
	}

	eng, err := engine.New(ctx, &cfg.Engine)
	if err != nil {
		return nil, err
	}
	l.engine = eng
	return l, nil
}

// Source returns the location the loader fetches from.
func (l *Loader) Source() fetch.Source {
	return l.source
}

// ImportObject returns the import object handed to every instantiation.
// It is always empty.
func (l *Loader) ImportObject() engine.ImportObject {
	return engine.ImportObject{}
}

// Load fetches and instantiates the module and binds its exports. The
// caller owns the returned Module and must close it.
func (l *Loader) Load(ctx context.Context) (*Module, error) {
	ctx, span := l.tracer.Start(ctx, "loader.Load",
		trace.WithAttributes(attribute.String("wasm.source", l.source.String())))
	defer span.End()

	mod, err := l.load(ctx)
	if err != nil {
		fail(span, err)
		l.logger.Debug("load failed", zap.String("source", l.source.String()), zap.Error(err))
		return nil, err
	}
	span.SetAttributes(attribute.Int("wasm.exports", mod.Exports().Len()))
	return mod, nil
}

func (l *Loader) load(ctx context.Context) (*Module, error) {
	var data []byte
	err := l.step(ctx, "fetch", func(ctx context.Context, span trace.Span) error {
		var err error
		data, err = l.source.Fetch(ctx)
		span.SetAttributes(attribute.Int("wasm.bytes", len(data)))
		return err
	})
	if err != nil {
		return nil, err
	}

	var compiled *engine.Module
	err = l.step(ctx, "compile", func(ctx context.Context, _ trace.Span) error {
		var err error
		compiled, err = l.engine.Compile(ctx, data)
		return err
	})
	if err != nil {
		return nil, err
	}

	mod := &Module{compiled: compiled, source: l.source.String(), binary: data}
	err = l.step(ctx, "instantiate", func(ctx context.Context, _ trace.Span) error {
		var err error
		mod.inst, err = compiled.Instantiate(ctx, l.ImportObject())
		return err
	})
	if err != nil {
		mod.Close(ctx)
		return nil, err
	}

	err = l.step(ctx, "bind", func(ctx context.Context, _ trace.Span) error {
		var err error
		mod.bindings, err = l.bind(ctx, mod.inst)
		return err
	})
	if err != nil {
		mod.Close(ctx)
		return nil, err
	}

	l.logger.Debug("module loaded",
		zap.String("source", mod.source),
		zap.Int("bytes", mod.Size()),
		zap.Strings("exports", mod.Exports().Names()))
	return mod, nil
}

// bind validates the export table and wires the conversion exports.
func (l *Loader) bind(ctx context.Context, inst *engine.Instance) (*Bindings, error) {
	glue, err := bindgen.New(inst)
	if err != nil {
		return nil, err
	}
	if _, err := glue.Start(ctx); err != nil {
		return nil, errs.Instantiation(err)
	}

	if err := ValidateExports(inst.Exports()); err != nil {
		return nil, err
	}
	return &Bindings{glue: glue}, nil
}

// ValidateExports checks that table carries every required and accessor
// export with the expected core signature.
func ValidateExports(table engine.ExportTable) error {
	for _, specs := range [][]ExportSpec{RequiredExports, AccessorExports} {
		for _, spec := range specs {
			fn, ok := table.Lookup(spec.Name)
			if !ok {
				return errs.MissingExport(spec.Name)
			}
			params, results, err := spec.CoreSignature()
			if err != nil {
				return errs.Wrap(errs.PhaseBind, errs.KindUnsupported, err, "lower "+spec.Name)
			}
			if !fn.Matches(params, results) {
				return errs.SignatureMismatch(spec.Name, engine.FormatSignature(params, results), fn.Signature())
			}
		}
	}
	return nil
}

// Run loads the module, writes one export reference to the diagnostic log
// and closes the instance. Nothing is written when any step fails.
func (l *Loader) Run(ctx context.Context) error {
	mod, err := l.Load(ctx)
	if err != nil {
		return err
	}
	defer mod.Close(ctx)

	name := l.cfg.DiagnosticExport
	if name == "" {
		name = wasmradix.ExportDecimalToRadix
	}
	fn, ok := mod.Exports().Lookup(name)
	if !ok {
		return errs.MissingExport(name)
	}

	fields := []zap.Field{
		zap.String("export", fn.Name),
		zap.String("signature", fn.Signature()),
	}
	if spec, ok := LookupSpec(name); ok {
		fields = append(fields, zap.String("wit", spec.WIT()))
	}
	l.diagnostic.Info("export", fields...)
	return nil
}

// Close releases the engine and every instance created by the loader.
func (l *Loader) Close(ctx context.Context) error {
	return l.engine.Close(ctx)
}

func (l *Loader) step(ctx context.Context, name string, fn func(context.Context, trace.Span) error) error {
	ctx, span := l.tracer.Start(ctx, name)
	defer span.End()

	if err := fn(ctx, span); err != nil {
		fail(span, err)
		return err
	}
	return nil
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	var e *errs.Error
	if errors.As(err, &e) {
		span.SetAttributes(
			attribute.String("error.phase", string(e.Phase)),
			attribute.String("error.kind", string(e.Kind)),
		)
	}
}
