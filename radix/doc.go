// Package radix converts between decimal values and numerals in bases 2
// through 255.
//
// Bases up to 36 use the digits 0-9 then a-z. Larger bases write each digit
// as a zero padded decimal group and join groups with ':', so 62.5 in base
// 60 is "01:02.30".
//
// The package is a Go port of the conversions the wasm radix module exports.
// Native exposes them through the same wasmradix.Converter interface as the
// loaded bindings.
package radix
