// Package config loads the YAML configuration shared by the radix commands.
//
// Values may reference the environment through placeholders:
//
//	source: "{{ env.RADIX_SOURCE || https://cdn.example.com/radix_bg.wasm }}"
//	fetch:
//	  max_bytes: {{ env.RADIX_MAX_BYTES || 1048576 }}
//
// Missing sections keep the values from Default.
package config
