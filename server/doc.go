// Package server exposes radix conversions as a JSON HTTP API.
//
// Every response is an envelope:
//
//	{"success": true, "data": {...}}
//	{"success": false, "message": "...", "error": "..."}
//
// Validation failures and invalid numerals are 400, unknown exports 404,
// guest traps and anything else 500. When a module binary is supplied it is
// also served as application/wasm so a browser loader can fetch it.
package server
