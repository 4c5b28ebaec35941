package main

import (
	"fmt"

	"github.com/wippyai/wasm-radix/loader"
	"github.com/wippyai/wasm-radix/radix"
)

type LoadCommand struct {
	Source string `help:"Module location: URL, s3://bucket/key or path." short:"s"`
	Export string `help:"Export to report instead of the configured one." short:"e"`
}

func (r *LoadCommand) Run(app *App) error {
	ctx := app.Context
	cfg := app.Config.Loader()
	if r.Source != "" {
		cfg.Source = r.Source
	}
	if r.Export != "" {
		cfg.DiagnosticExport = r.Export
	}

	opts := []loader.Option{loader.WithLogger(app.Logger)}
	if app.Diagnostic != nil {
		opts = append(opts, loader.WithDiagnostic(app.Diagnostic))
	}
	ld, err := loader.New(ctx, cfg, opts...)
	if err != nil {
		return err
	}
	defer ld.Close(ctx)
	return ld.Run(ctx)
}

type ExportsCommand struct {
	Source string `help:"Module location: URL, s3://bucket/key or path." short:"s"`
}

func (r *ExportsCommand) Run(app *App) error {
	b, err := app.open(app.Context, false, r.Source)
	if err != nil {
		return err
	}
	defer b.Close(app.Context)

	table := b.module.Exports()
	fmt.Fprintf(app.Out, "%s (%d bytes, %d exports)\n", b.source, b.module.Size(), table.Len())
	for _, name := range table.Names() {
		fn, _ := table.Lookup(name)
		fmt.Fprintf(app.Out, "  %-28s %s", fn.Name, fn.Signature())
		if spec, ok := loader.LookupSpec(name); ok {
			fmt.Fprintf(app.Out, "  %s", spec.WIT())
		}
		fmt.Fprintln(app.Out)
	}
	return nil
}

type ConvertCommand struct {
	Op     string   `arg:"" enum:"decimal_to_radix,radix_to_decimal,fraction_to_unit,radix_fraction_to_radix,float_to_fraction" help:"Conversion to call (${enum})."`
	Args   []string `arg:"" optional:"" help:"Conversion arguments in parameter order."`
	Native bool     `help:"Use the Go implementation instead of the module."`
	Source string   `help:"Module location: URL, s3://bucket/key or path." short:"s"`
}

func (r *ConvertCommand) Run(app *App) error {
	b, err := app.open(app.Context, r.Native, r.Source)
	if err != nil {
		return err
	}
	defer b.Close(app.Context)

	result, err := invoke(app.Context, b.conv, r.Op, r.Args)
	if err != nil {
		return err
	}
	logResult(app.Logger, r.Op, r.Args, result)
	fmt.Fprintln(app.Out, result)
	return nil
}

type EvalCommand struct {
	Expr     string `arg:"" help:"Expression, e.g. \"(24 / 2) + 5 * 7\"."`
	Base     uint32 `help:"Render the result in this base." short:"b"`
	Fraction bool   `help:"Read the expression as \"numer / denom\" and print a mixed number." short:"f"`
}

func (r *EvalCommand) Run(app *App) error {
	switch {
	case r.Fraction:
		q, err := radix.FracExprToRational(r.Expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(app.Out, q.Display)
	case r.Base != 0:
		text, err := radix.ExprToRadix(r.Expr, r.Base)
		if err != nil {
			return err
		}
		fmt.Fprintln(app.Out, text)
	default:
		v, err := radix.ExprToFloat(r.Expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(app.Out, formatFloat(v))
	}
	return nil
}
