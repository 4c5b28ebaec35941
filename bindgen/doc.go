// Package bindgen implements the host half of the wasm-bindgen calling
// convention for modules instantiated without the generated JavaScript.
//
// wasm-bindgen lowers high level types onto core values:
//
//	Type            Parameter              Result
//	───────────────────────────────────────────────────────────────
//	f64             f64                    f64
//	u32, i32        i32                    i32
//	&str            (ptr, len)             -
//	String          -                      retptr: (ptr, len) at retptr
//	#[wasm_bindgen] struct                 i32 pointer (Handle)
//
// String parameters are copied into memory obtained from __wbindgen_malloc.
// String results are written by the callee into a 16 byte return area
// reserved on the shadow stack with __wbindgen_add_to_stack_pointer; the
// host copies the string out and hands it back to __wbindgen_free.
//
// Struct results are pointers into guest memory. Fields are read through
// exported accessors and the struct is freed with __wbg_<type>_free.
package bindgen
