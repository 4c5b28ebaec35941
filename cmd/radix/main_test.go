package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/wasm-radix/config"
	errs "github.com/wippyai/wasm-radix/errors"
	"github.com/wippyai/wasm-radix/internal/wasmtest"
	"github.com/wippyai/wasm-radix/radix"
)

func run(t *testing.T, logger *zap.Logger, args ...string) (string, error) {
	t.Helper()
	return runApp(t, &App{Logger: logger}, args...)
}

func runApp(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	var cmd Command
	parser, err := kong.New(&cmd, kong.Name("radix"))
	if err != nil {
		t.Fatal(err)
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	if app.Logger == nil {
		app.Logger = zap.NewNop()
	}

	var out bytes.Buffer
	app.Context = context.Background()
	app.Config = config.Default()
	app.Out = &out
	err = kctx.Run(app)
	return out.String(), err
}

func fixtureFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "radix_bg.wasm")
	if err := os.WriteFile(path, wasmtest.RadixModule(), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEval(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"eval", "(24 / 2) + 5 * 7"}, "47"},
		{[]string{"eval", "12 ^ 8", "--base", "12"}, "100000000"},
		{[]string{"eval", "1 / 3", "-b", "12"}, "0.4"},
		{[]string{"eval", "3 / 2", "--fraction"}, "1 1/2"},
	}
	for _, tt := range tests {
		out, err := run(t, nil, tt.args...)
		if err != nil {
			t.Errorf("%v failed: %v", tt.args, err)
			continue
		}
		if got := strings.TrimSpace(out); got != tt.want {
			t.Errorf("%v = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestEval_Error(t *testing.T) {
	_, err := run(t, nil, "eval", "sqrt(")
	if !errors.Is(err, &errs.Error{Phase: errs.PhaseParse}) {
		t.Errorf("err = %v", err)
	}
}

func TestConvert_Native(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"convert", "--native", "decimal_to_radix", "26.75", "20"}, "16.f"},
		{[]string{"convert", "--native", "decimal_to_radix", "1 / 7", "12"}, ""},
		{[]string{"convert", "--native", "radix_to_decimal", "01:02.30", "60"}, "62.5"},
		{[]string{"convert", "--native", "fraction_to_unit", "3", "2", "10"}, "1 1/2"},
		{[]string{"convert", "--native", "radix_fraction_to_radix", "1/2", "12"}, "0.6 (0.5)"},
		{[]string{"convert", "--native", "float_to_fraction", "--", "-1.75", "4096"}, "-7/4 (difference 0)"},
	}
	for _, tt := range tests {
		out, err := run(t, nil, tt.args...)
		if err != nil {
			t.Errorf("%v failed: %v", tt.args, err)
			continue
		}
		got := strings.TrimSpace(out)
		if tt.want == "" {
			if !strings.HasPrefix(got, "0.186a35") {
				t.Errorf("%v = %q", tt.args, got)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("%v = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestConvert_Module(t *testing.T) {
	out, err := run(t, nil, "convert", "decimal_to_radix", "1", "20", "--source", fixtureFile(t))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out); got != wasmtest.FixtureDecimalText {
		t.Errorf("got %q", got)
	}
}

func TestConvert_BadArguments(t *testing.T) {
	_, err := run(t, nil, "convert", "--native", "fraction_to_unit", "3", "2")
	if !errors.Is(err, &errs.Error{Phase: errs.PhaseParse, Kind: errs.KindInvalidInput}) {
		t.Errorf("arity: err = %v", err)
	}

	_, err = run(t, nil, "convert", "--native", "decimal_to_radix", "1", "twelve")
	var e *errs.Error
	if !errors.As(err, &e) || len(e.Path) != 1 || e.Path[0] != "base" {
		t.Errorf("bad base: err = %v", err)
	}
}

func TestLoad_LogsOneExport(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	if _, err := run(t, zap.New(core), "load", "--source", fixtureFile(t), "--export", "radix_to_decimal"); err != nil {
		t.Fatal(err)
	}

	entries := logs.FilterMessage("export").All()
	if len(entries) != 1 {
		t.Fatalf("got %d export entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["export"]; got != "radix_to_decimal" {
		t.Errorf("export field = %v", got)
	}
}

func TestLoad_DiagnosticIgnoresLogLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	app := &App{
		Logger:     zap.New(zapcore.NewNopCore()),
		Diagnostic: zap.New(core),
	}
	if _, err := runApp(t, app, "load", "--source", fixtureFile(t)); err != nil {
		t.Fatal(err)
	}
	if got := logs.FilterMessage("export").Len(); got != 1 {
		t.Errorf("got %d export entries, want 1", got)
	}
}

func TestLoad_MissingSource(t *testing.T) {
	_, err := run(t, nil, "load", "--source", filepath.Join(t.TempDir(), "absent.wasm"))
	if !errors.Is(err, &errs.Error{Phase: errs.PhaseFetch}) {
		t.Errorf("err = %v", err)
	}
}

func TestExports(t *testing.T) {
	out, err := run(t, nil, "exports", "--source", fixtureFile(t))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"decimal_to_radix", "(i32, f64, i32) -> ()", "func(rad-val: string, base: u32) -> f64"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInvoke_UnknownConversion(t *testing.T) {
	_, err := invoke(context.Background(), radix.Native{}, "radix_to_roman", nil)
	if !errors.Is(err, &errs.Error{Phase: errs.PhaseCall, Kind: errs.KindNotFound}) {
		t.Errorf("err = %v", err)
	}
}

func TestNewLogger(t *testing.T) {
	cfg := config.Default()
	if l := newLogger(cfg, false, false); l.Core().Enabled(zap.DebugLevel) {
		t.Error("debug enabled at info level")
	}
	if l := newLogger(cfg, true, false); !l.Core().Enabled(zap.DebugLevel) {
		t.Error("verbose did not enable debug")
	}
	cfg.Log.Level = "error"
	if l := newLogger(cfg, false, true); l.Core().Enabled(zap.WarnLevel) {
		t.Error("warn enabled at error level")
	}
	if l := newDiagnosticLogger(cfg, false); !l.Core().Enabled(zap.InfoLevel) {
		t.Error("diagnostic logger filtered by log.level")
	}
}
