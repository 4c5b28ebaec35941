// Package wasmradix loads the radix conversion WebAssembly module and
// exposes its exports through a typed Go API.
//
// The module is a wasm-bindgen build of a radix conversion crate. The host
// fetches the binary, instantiates it with an empty import table, validates
// the export table against the five known conversion functions and binds
// them to the Converter interface. A native Go port of the same conversions
// lives in the radix package and satisfies the same interface.
//
// # Architecture Overview
//
//	wasmradix/           Root package with Converter, Fraction, NumString, Memory
//	├── loader/          Module loader: fetch, instantiate, bind, diagnostic write
//	├── engine/          wazero integration: compile, import object, export table
//	├── bindgen/         wasm-bindgen host ABI (strings, retptr, handles)
//	├── fetch/           Binary retrieval over HTTP, file and S3
//	├── radix/           Native conversions and expression evaluation
//	├── config/          YAML configuration
//	├── server/          HTTP API over any Converter
//	├── errors/          Structured error types
//	└── cmd/radix/       Command line interface
//
// # Quick Start
//
//	ld, err := loader.New(ctx, loader.Config{Source: "https://example.com/radix_bg.wasm"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ld.Close(ctx)
//
//	mod, err := ld.Load(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer mod.Close(ctx)
//
//	s, err := mod.Bindings().DecimalToRadix(ctx, 26.75, 20)
//	fmt.Println(s) // "16.f"
//
// Failures are reported with phase and kind (see errors): network failures
// are PhaseFetch, malformed binaries PhaseDecode and instantiation problems
// PhaseInstantiate, so callers can tell them apart.
package wasmradix
