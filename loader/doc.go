// Package loader fetches the radix module, instantiates it with an empty
// import object and binds its export table.
//
// The chain is linear:
//
//	fetch -> compile -> instantiate -> bind
//
// Each step runs in its own trace span under "loader.Load" and fails with
// its own error phase, so a network failure, a malformed binary and an
// unsatisfied import are always distinguishable. There are no retries.
//
// Load returns a Module whose Bindings implement wasmradix.Converter.
// Run is the one-shot form: it loads, writes a single Info entry naming one
// export and its signature to the logger, then closes the instance.
//
//	ld, _ := loader.New(ctx, loader.Config{Source: "https://example.com/radix_bg.wasm"},
//	    loader.WithLogger(logger))
//	defer ld.Close(ctx)
//	if err := ld.Run(ctx); err != nil {
//	    return err
//	}
package loader
