package bindgen

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	errs "github.com/wippyai/wasm-radix/errors"
)

// Handle is a pointer to a guest-owned struct returned by an export.
// The struct is freed through its __wbg_<type>_free export.
type Handle struct {
	glue     *Glue
	free     string
	ptr      uint32
	released bool
}

// Handle wraps ptr. A null pointer is rejected.
func (g *Glue) Handle(ptr uint32, freeExport string) (*Handle, error) {
	if ptr == 0 {
		return nil, errs.New(errs.PhaseCall, errs.KindInvalidInput).
			Export(freeExport).
			Detail("null struct handle").
			Build()
	}
	return &Handle{glue: g, ptr: ptr, free: freeExport}, nil
}

// Ptr returns the guest address of the struct.
func (h *Handle) Ptr() uint32 {
	return h.ptr
}

func (h *Handle) check() error {
	if h.released {
		return errs.New(errs.PhaseCall, errs.KindNotInitialized).
			Export(h.free).
			Detail("handle %#x already released", h.ptr).
			Build()
	}
	return nil
}

// I32 calls a (ptr) -> i32 accessor.
func (h *Handle) I32(ctx context.Context, accessor string) (int32, error) {
	if err := h.check(); err != nil {
		return 0, err
	}
	res, err := h.glue.Call(ctx, accessor, api.EncodeU32(h.ptr))
	if err != nil {
		return 0, err
	}
	return api.DecodeI32(res[0]), nil
}

// F64 calls a (ptr) -> f64 accessor.
func (h *Handle) F64(ctx context.Context, accessor string) (float64, error) {
	if err := h.check(); err != nil {
		return 0, err
	}
	res, err := h.glue.Call(ctx, accessor, api.EncodeU32(h.ptr))
	if err != nil {
		return 0, err
	}
	return api.DecodeF64(res[0]), nil
}

// String calls a (retptr, ptr) accessor returning a string.
func (h *Handle) String(ctx context.Context, accessor string) (string, error) {
	if err := h.check(); err != nil {
		return "", err
	}
	return h.glue.CallString(ctx, accessor, api.EncodeU32(h.ptr))
}

// Release frees the guest struct. Releasing twice is a no-op.
func (h *Handle) Release(ctx context.Context) error {
	if h.released {
		return nil
	}
	h.released = true
	_, err := h.glue.Call(ctx, h.free, api.EncodeU32(h.ptr))
	return err
}
