// Package errors provides structured error types for the radix loader.
//
// Errors are categorized by Phase (where in the load chain or call path the
// error occurred) and Kind (error category). The Error type carries the
// export name, a field path, the offending value and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseBind, errors.KindSignatureMismatch).
//		Export("decimal_to_radix").
//		Detail("want (i32, f64, i32) -> (), got (f64) -> f64").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Network(url, cause)
//	err := errors.InvalidFormat("compile module", cause)
//
// The load chain reports network failures in PhaseFetch, binary format
// failures in PhaseDecode and instantiation failures in PhaseInstantiate.
// InPhase builds a target that matches any kind of a phase:
//
//	if errors.Is(err, errors.InPhase(errors.PhaseFetch)) { ... }
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
