package fetch

import (
	"context"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	errs "github.com/wippyai/wasm-radix/errors"
)

// S3Options configures access to S3-compatible object storage.
type S3Options struct {
	Endpoint  string // e.g. https://minio.local:9000
	AccessKey string
	SecretKey string
	Region    string
}

// NewObjectClient creates a minio client from opts. The endpoint scheme
// selects TLS.
func NewObjectClient(opts S3Options) (*minio.Client, error) {
	if opts.Endpoint == "" {
		return nil, errs.InvalidInput(errs.PhaseFetch, "s3 endpoint not configured")
	}
	parsed, err := url.Parse(opts.Endpoint)
	if err != nil || parsed.Host == "" {
		return nil, errs.New(errs.PhaseFetch, errs.KindInvalidInput).
			Detail("invalid s3 endpoint %q", opts.Endpoint).
			Cause(err).
			Build()
	}

	client, err := minio.New(parsed.Host, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: parsed.Scheme == "https",
		Region: opts.Region,
	})
	if err != nil {
		return nil, errs.New(errs.PhaseFetch, errs.KindInvalidInput).
			Detail("initialize s3 client").
			Cause(err).
			Build()
	}
	return client, nil
}

// ObjectSource reads a binary from a bucket.
type ObjectSource struct {
	Client   *minio.Client
	Bucket   string
	Key      string
	MaxBytes int64
}

func (s *ObjectSource) String() string {
	return "s3://" + s.Bucket + "/" + s.Key
}

func (s *ObjectSource) Fetch(ctx context.Context) ([]byte, error) {
	if s.Client == nil {
		return nil, errs.NotInitialized(errs.PhaseFetch, "s3 client")
	}
	location := s.String()

	obj, err := s.Client.GetObject(ctx, s.Bucket, s.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.mapError(location, err)
	}
	defer obj.Close()

	info, err := obj.Stat()
	if err != nil {
		return nil, s.mapError(location, err)
	}
	if s.MaxBytes > 0 && info.Size > s.MaxBytes {
		return nil, errs.TooLarge(location, s.MaxBytes)
	}

	Logger().Debug("fetching object",
		zap.String("bucket", s.Bucket),
		zap.String("key", s.Key),
		zap.Int64("size", info.Size))
	return readLimited(obj, location, s.MaxBytes)
}

func (s *ObjectSource) mapError(location string, err error) error {
	resp := minio.ToErrorResponse(err)
	switch {
	case resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket":
		return errs.NotFound(errs.PhaseFetch, "object", location)
	case resp.StatusCode != 0:
		return errs.New(errs.PhaseFetch, errs.KindStatus).
			Detail("%s returned status %d (%s)", location, resp.StatusCode, resp.Code).
			Value(resp.StatusCode).
			Cause(err).
			Build()
	}
	return errs.Network(location, err)
}

// parseObjectURL splits s3://bucket/key.
func parseObjectURL(u *url.URL) (bucket, key string, err error) {
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", errs.New(errs.PhaseFetch, errs.KindInvalidInput).
			Detail("object location %q needs a bucket and a key", u.String()).
			Build()
	}
	return bucket, key, nil
}
