package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-radix/server"
)

type ServeCommand struct {
	Listen string `help:"Listen address (overrides server.listen)." short:"l"`
	Source string `help:"Module location: URL, s3://bucket/key or path." short:"s"`
	Native bool   `help:"Serve the Go implementation instead of the module."`
}

func (r *ServeCommand) Run(app *App) error {
	fxApp := fx.New(
		fx.Supply(app, r),
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: app.Logger.Named("fx")}
		}),
		fx.Provide(newBackend, newServer),
		fx.Invoke(func(*server.Server) {}),
	)

	if err := fxApp.Start(app.Context); err != nil {
		return err
	}

	var code int
	select {
	case sig := <-fxApp.Wait():
		code = sig.ExitCode
	case <-app.Context.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fxApp.Stop(ctx); err != nil {
		return err
	}
	if code != 0 {
		return fmt.Errorf("server exited with code %d", code)
	}
	return nil
}

func newBackend(lc fx.Lifecycle, app *App, r *ServeCommand) (*backend, error) {
	b, err := app.open(app.Context, r.Native || app.Config.Server.Native, r.Source)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			b.Close(ctx)
			return nil
		},
	})
	return b, nil
}

func newServer(lc fx.Lifecycle, sd fx.Shutdowner, app *App, r *ServeCommand, b *backend) *server.Server {
	opts := server.Options{
		Converter:  b.conv,
		ModulePath: app.Config.Server.ModulePath,
		Logger:     app.Logger.Named("server"),
	}
	if b.module != nil {
		opts.Module = b.module.Binary()
		opts.Exports = b.module.Exports()
	}
	srv := server.New(opts)

	addr := r.Listen
	if addr == "" {
		addr = app.Config.Server.Listen
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := srv.Listen(addr); err != nil {
					app.Logger.Error("unable to listen", zap.String("addr", addr), zap.Error(err))
					_ = sd.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
	return srv
}
