package fetch

import (
	"context"
	"io"

	errs "github.com/wippyai/wasm-radix/errors"
)

// DefaultModuleName is the file name wasm-bindgen gives the binary of the
// radix crate. A bare name is resolved against Options.BaseURL.
const DefaultModuleName = "radix_bg.wasm"

// DefaultMaxBytes caps the size of a fetched binary.
const DefaultMaxBytes int64 = 16 << 20

// Source retrieves a module binary.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	String() string
}

// readLimited reads r fully, failing with KindTooLarge past max bytes.
func readLimited(r io.Reader, location string, max int64) ([]byte, error) {
	if max <= 0 {
		max = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, errs.Network(location, err)
	}
	if int64(len(data)) > max {
		return nil, errs.TooLarge(location, max)
	}
	return data, nil
}
