package fetch

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	errs "github.com/wippyai/wasm-radix/errors"
)

// HTTPSource fetches a binary with a single GET. There are no retries.
type HTTPSource struct {
	Client    *http.Client
	URL       string
	UserAgent string
	MaxBytes  int64
}

func (s *HTTPSource) String() string {
	return s.URL
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, errs.New(errs.PhaseFetch, errs.KindInvalidInput).
			Detail("build request for %s", s.URL).
			Cause(err).
			Build()
	}
	req.Header.Set("Accept", "application/wasm")
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	Logger().Debug("fetching module", zap.String("url", s.URL))
	resp, err := client.Do(req)
	if err != nil {
		return nil, errs.Network(s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errs.Status(s.URL, resp.StatusCode)
	}
	if resp.ContentLength > 0 && s.MaxBytes > 0 && resp.ContentLength > s.MaxBytes {
		return nil, errs.TooLarge(s.URL, s.MaxBytes)
	}

	data, err := readLimited(resp.Body, s.URL, s.MaxBytes)
	if err != nil {
		return nil, err
	}
	Logger().Debug("module fetched",
		zap.String("url", s.URL),
		zap.Int("bytes", len(data)),
		zap.String("content_type", resp.Header.Get("Content-Type")))
	return data, nil
}
