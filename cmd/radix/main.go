package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/wippyai/wasm-radix/config"
	"github.com/wippyai/wasm-radix/engine"
	"github.com/wippyai/wasm-radix/fetch"
)

type Command struct {
	Config  string `help:"Configuration file (defaults to $RADIX_CONFIG_PATH)." type:"path" short:"c"`
	Verbose bool   `help:"Enable debug logging." short:"v"`

	Load    LoadCommand    `cmd:"" default:"1" help:"Fetch and instantiate the module, then log one export."`
	Exports ExportsCommand `cmd:"" help:"List the module export table."`
	Convert ConvertCommand `cmd:"" help:"Call one conversion."`
	Eval    EvalCommand    `cmd:"" help:"Evaluate an arithmetic expression."`
	Serve   ServeCommand   `cmd:"" help:"Serve conversions over HTTP."`
	Tui     TuiCommand     `cmd:"" help:"Interactive converter."`
}

// App is handed to every command's Run.
type App struct {
	Context context.Context
	Config  *config.Config
	Logger  *zap.Logger
	// Diagnostic receives the load command's export entry. Nil means Logger.
	Diagnostic *zap.Logger
	Out        io.Writer
}

func main() {
	command := new(Command)
	kctx := kong.Parse(
		command,
		kong.Name("radix"),
		kong.Description("Load the radix wasm module and convert numbers between bases."),
		kong.UsageOnError(),
	)

	cfg, err := config.Load(command.Config)
	kctx.FatalIfErrorf(err)

	tty := term.IsTerminal(int(os.Stderr.Fd()))
	logger := newLogger(cfg, command.Verbose, tty)
	defer logger.Sync()
	diagnostic := newDiagnosticLogger(cfg, tty)
	defer diagnostic.Sync()
	engine.SetLogger(logger.Named("engine"))
	fetch.SetLogger(logger.Named("fetch"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = kctx.Run(&App{
		Context:    ctx,
		Config:     cfg,
		Logger:     logger,
		Diagnostic: diagnostic,
		Out:        os.Stdout,
	})
	kctx.FatalIfErrorf(err)
}

// newLogger writes to stderr: console encoding for terminals and development
// mode, JSON otherwise.
func newLogger(cfg *config.Config, verbose, tty bool) *zap.Logger {
	level := cfg.Level()
	if verbose {
		level = zap.DebugLevel
	}

	opts := []zap.Option{zap.AddCaller()}
	if cfg.Log.Development {
		opts = append(opts, zap.Development())
	}
	return zap.New(zapcore.NewCore(newEncoder(cfg, tty), zapcore.Lock(os.Stderr), level), opts...)
}

// newDiagnosticLogger shares the log encoding but is pinned at Info, so the
// export entry of the load command is written whatever log.level says.
func newDiagnosticLogger(cfg *config.Config, tty bool) *zap.Logger {
	return zap.New(zapcore.NewCore(newEncoder(cfg, tty), zapcore.Lock(os.Stderr), zap.InfoLevel))
}

func newEncoder(cfg *config.Config, tty bool) zapcore.Encoder {
	if tty || cfg.Log.Development {
		ec := zap.NewDevelopmentEncoderConfig()
		if tty {
			ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		return zapcore.NewConsoleEncoder(ec)
	}
	return zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
}
