package server

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	wasmradix "github.com/wippyai/wasm-radix"
	"github.com/wippyai/wasm-radix/engine"
	"github.com/wippyai/wasm-radix/fetch"
)

// Options configures a Server.
type Options struct {
	// Converter serves the conversion routes. Required.
	Converter wasmradix.Converter

	// Module is served at ModulePath when non-empty.
	Module     []byte
	ModulePath string

	// Exports backs /api/exports; nil when running natively.
	Exports engine.ExportTable

	Logger *zap.Logger
}

// Server exposes a Converter over HTTP.
type Server struct {
	app      *fiber.App
	conv     wasmradix.Converter
	module   []byte
	exports  engine.ExportTable
	validate *validator.Validate
	logger   *zap.Logger
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	path := opts.ModulePath
	if path == "" {
		path = "/" + fetch.DefaultModuleName
	}

	s := &Server{
		app: fiber.New(fiber.Config{
			ErrorHandler:          HandleError,
			StrictRouting:         true,
			DisableStartupMessage: true,
		}),
		conv:     opts.Converter,
		module:   opts.Module,
		exports:  opts.Exports,
		validate: validator.New(),
		logger:   logger,
	}

	s.app.Use(s.logRequest)
	if len(s.module) > 0 {
		s.app.Get(path, s.handleModule)
	}

	api := s.app.Group("/api")
	api.Get("/exports", s.handleExports)
	api.Get("/decimal-to-radix", s.handleDecimalToRadix)
	api.Get("/radix-to-decimal", s.handleRadixToDecimal)
	api.Get("/fraction-to-unit", s.handleFractionToUnit)
	api.Get("/radix-fraction-to-radix", s.handleRadixFractionToRadix)
	api.Get("/float-to-fraction", s.handleFloatToFraction)
	api.Get("/expr", s.handleExpr)
	api.Get("/rational", s.handleRational)

	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.logger.Info("listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) logRequest(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	// the error handler sets the final status after this returns
	s.logger.Debug("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err),
	)
	return err
}
