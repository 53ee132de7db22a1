// Package storage talks to the remote file store. Two backends implement the
// same contract: the storage service's HTTP API and an S3 bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"minicloud/config"
)

var (
	ErrNotFound    = errors.New("storage: file not found")
	ErrNoFilename  = errors.New("storage: filename required")
	ErrNilSource   = errors.New("storage: upload source required")
	ErrUnsupported = errors.New("storage: unsupported backend")
)

type Backend interface {
	// Upload stores the content of r under filename.
	Upload(ctx context.Context, filename string, r io.Reader) error
	// List returns the raw listing payload. Its shape is not trusted; callers
	// run it through the listing normalizer.
	List(ctx context.Context) ([]byte, error)
	// Download returns the content stored under filename. The caller closes it.
	Download(ctx context.Context, filename string) (io.ReadCloser, error)
	Delete(ctx context.Context, filename string) error
}

// StatusError is returned when the storage service answers with a non-2xx
// status. A 404 unwraps to ErrNotFound.
type StatusError struct {
	Op         string
	Filename   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	status := fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	if e.Filename != "" {
		return fmt.Sprintf("storage: %s %q: %s", e.Op, e.Filename, status)
	}
	return fmt.Sprintf("storage: %s: %s", e.Op, status)
}

func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// New returns the backend selected by cfg.Backend.
func New(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.Backend {
	case config.BackendHTTP, "":
		return NewHTTP(cfg.StorageURL), nil
	case config.BackendS3:
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, cfg.Backend)
	}
}
