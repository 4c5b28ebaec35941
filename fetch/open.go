package fetch

import (
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	errs "github.com/wippyai/wasm-radix/errors"
)

// Options controls how Open builds a Source.
type Options struct {
	Client    *http.Client
	BaseURL   string
	UserAgent string
	S3        S3Options
	MaxBytes  int64
}

// Open returns a Source for location:
//
//	http://host/radix_bg.wasm   HTTPSource
//	s3://bucket/radix_bg.wasm   ObjectSource (endpoint from opts.S3)
//	file:///srv/radix_bg.wasm   FileSource
//	./radix_bg.wasm             resolved against opts.BaseURL, else FileSource
//
// An empty location means DefaultModuleName.
func Open(location string, opts Options) (Source, error) {
	if location == "" {
		location = DefaultModuleName
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}

	u, err := url.Parse(location)
	if err != nil || len(u.Scheme) <= 1 {
		// relative reference or a Windows drive letter
		if opts.BaseURL != "" {
			return openRelative(location, opts)
		}
		return &FileSource{Path: location, MaxBytes: opts.MaxBytes}, nil
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return &HTTPSource{
			URL:       u.String(),
			Client:    opts.Client,
			UserAgent: opts.UserAgent,
			MaxBytes:  opts.MaxBytes,
		}, nil
	case "file":
		return &FileSource{Path: filepath.FromSlash(u.Path), MaxBytes: opts.MaxBytes}, nil
	case "s3":
		bucket, key, err := parseObjectURL(u)
		if err != nil {
			return nil, err
		}
		client, err := NewObjectClient(opts.S3)
		if err != nil {
			return nil, err
		}
		return &ObjectSource{Client: client, Bucket: bucket, Key: key, MaxBytes: opts.MaxBytes}, nil
	}

	return nil, errs.New(errs.PhaseFetch, errs.KindUnsupported).
		Detail("unsupported location scheme %q", u.Scheme).
		Value(location).
		Build()
}

// openRelative resolves location against opts.BaseURL the way a page
// resolves a relative module URL.
func openRelative(location string, opts Options) (Source, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil || len(base.Scheme) <= 1 {
		// base is a directory on disk
		return &FileSource{Path: filepath.Join(opts.BaseURL, location), MaxBytes: opts.MaxBytes}, nil
	}
	ref, err := url.Parse(filepath.ToSlash(location))
	if err != nil {
		return nil, errs.New(errs.PhaseFetch, errs.KindInvalidInput).
			Detail("invalid module location %q", location).
			Cause(err).
			Build()
	}
	opts.BaseURL = ""
	return Open(base.ResolveReference(ref).String(), opts)
}
