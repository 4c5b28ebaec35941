package fetch

import (
	"context"
	"errors"
	"io/fs"
	"os"

	errs "github.com/wippyai/wasm-radix/errors"
)

// FileSource reads a binary from the local filesystem.
type FileSource struct {
	Path     string
	MaxBytes int64
}

func (s *FileSource) String() string {
	return s.Path
}

func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Network(s.Path, err)
	}

	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.NotFound(errs.PhaseFetch, "file", s.Path)
		}
		return nil, errs.Wrap(errs.PhaseFetch, errs.KindNetwork, err, "open "+s.Path)
	}
	defer f.Close()

	return readLimited(f, s.Path, s.MaxBytes)
}
