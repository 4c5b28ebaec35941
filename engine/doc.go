// Package engine wraps wazero for loading core WebAssembly modules.
//
// # Architecture
//
// The engine package provides three main types:
//
//	Engine   - Owns a wazero runtime, compiles binaries
//	Module   - A compiled module with its import list and export table
//	Instance - A running module with memory and callable exports
//
// # Instantiation Flow
//
//  1. Engine.Compile() checks the header, decodes the import section and
//     compiles with wazero
//  2. Module.Instantiate() resolves every import against an ImportObject
//  3. Instance.Call() invokes exports with raw core values
//
// The ImportObject is always empty. A module that declares imports fails
// with a MissingImportsError listing every unresolved entry, before wazero
// is asked to link anything.
//
// # Errors
//
// Header and compile failures are PhaseDecode, import and start failures
// PhaseInstantiate, traps PhaseCall. See the errors package.
//
// # Thread Safety
//
// Engine and Module are safe for concurrent use.
// Instance is NOT thread-safe and should be used by a single goroutine.
package engine
