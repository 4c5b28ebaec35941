package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	wasmradix "github.com/wippyai/wasm-radix"
	errs "github.com/wippyai/wasm-radix/errors"
	"github.com/wippyai/wasm-radix/loader"
	"github.com/wippyai/wasm-radix/radix"
)

// backend is the converter a command works against: the loaded module, or
// the native port.
type backend struct {
	conv   wasmradix.Converter
	module *loader.Module
	ld     *loader.Loader
	source string
}

func (a *App) open(ctx context.Context, native bool, source string) (*backend, error) {
	if native {
		return &backend{conv: radix.Native{}, source: "native"}, nil
	}

	cfg := a.Config.Loader()
	if source != "" {
		cfg.Source = source
	}
	ld, err := loader.New(ctx, cfg, loader.WithLogger(a.Logger))
	if err != nil {
		return nil, err
	}
	mod, err := ld.Load(ctx)
	if err != nil {
		ld.Close(ctx)
		return nil, err
	}
	return &backend{conv: mod.Bindings(), module: mod, ld: ld, source: mod.Source()}, nil
}

func (b *backend) Close(ctx context.Context) {
	if b.module != nil {
		b.module.Close(ctx)
	}
	if b.ld != nil {
		b.ld.Close(ctx)
	}
}

func requiredSpec(name string) (loader.ExportSpec, error) {
	for _, s := range loader.RequiredExports {
		if s.Name == name {
			return s, nil
		}
	}
	return loader.ExportSpec{}, errs.NotFound(errs.PhaseCall, "conversion", name)
}

func usage(spec loader.ExportSpec) string {
	names := make([]string, len(spec.Params))
	for i, p := range spec.Params {
		names[i] = p.Name + ":" + p.TypeName()
	}
	return strings.Join(names, " ")
}

// parseArgs converts text arguments to the Go types of the export params.
// f64 arguments accept arithmetic expressions.
func parseArgs(spec loader.ExportSpec, args []string) ([]any, error) {
	if len(args) != len(spec.Params) {
		return nil, errs.New(errs.PhaseParse, errs.KindInvalidInput).
			Export(spec.Name).
			Detail("%s takes %d arguments (%s), got %d", spec.Name, len(spec.Params), usage(spec), len(args)).
			Build()
	}

	out := make([]any, len(args))
	for i, p := range spec.Params {
		v, err := convertArg(strings.TrimSpace(args[i]), p.Type)
		if err != nil {
			return nil, errs.New(errs.PhaseParse, errs.KindInvalidInput).
				Export(spec.Name).
				Path(p.Name).
				Detail("invalid %s %q", p.TypeName(), args[i]).
				Cause(err).
				Build()
		}
		out[i] = v
	}
	return out, nil
}

func convertArg(value string, t wit.Type) (any, error) {
	switch t.(type) {
	case wit.String:
		return value, nil
	case wit.U32:
		v, err := strconv.ParseUint(value, 10, 32)
		return uint32(v), err
	case wit.S32:
		v, err := strconv.ParseInt(value, 10, 32)
		return int32(v), err
	case wit.F64:
		return radix.ExprToFloat(value)
	}
	return nil, fmt.Errorf("unsupported parameter type %T", t)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// invoke runs the named conversion with text arguments and renders the
// result as text.
func invoke(ctx context.Context, conv wasmradix.Converter, name string, args []string) (string, error) {
	spec, err := requiredSpec(name)
	if err != nil {
		return "", err
	}
	vals, err := parseArgs(spec, args)
	if err != nil {
		return "", err
	}

	switch name {
	case wasmradix.ExportDecimalToRadix:
		return conv.DecimalToRadix(ctx, vals[0].(float64), vals[1].(uint32))

	case wasmradix.ExportRadixToDecimal:
		v, err := conv.RadixToDecimal(ctx, vals[0].(string), vals[1].(uint32))
		if err != nil {
			return "", err
		}
		return formatFloat(v), nil

	case wasmradix.ExportFractionToUnit:
		return conv.FractionToUnit(ctx, vals[0].(int32), vals[1].(int32), vals[2].(uint32))

	case wasmradix.ExportRadixFractionToRadix:
		ns, err := conv.RadixFractionToRadix(ctx, vals[0].(string), vals[1].(uint32))
		if err != nil {
			return "", err
		}
		return ns.AsString() + " (" + formatFloat(ns.AsFloat()) + ")", nil

	case wasmradix.ExportFloatToFraction:
		f, err := conv.FloatToFraction(ctx, vals[0].(float64), vals[1].(int32))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d/%d (difference %s)", f.Numerator(), f.Denominator(), formatFloat(f.Difference())), nil
	}
	return "", errs.NotFound(errs.PhaseCall, "conversion", name)
}

func logResult(logger *zap.Logger, name string, args []string, result string) {
	logger.Debug("converted",
		zap.String("export", name),
		zap.Strings("args", args),
		zap.String("result", result),
	)
}
