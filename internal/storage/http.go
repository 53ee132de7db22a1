package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/imroc/req/v3"
)

const (
	routeUpload   = "/upload"
	routeList     = "/list"
	routeDownload = "/download/{filename}"
	routeDelete   = "/delete/{filename}"

	maxErrorBody = 512
)

// HTTPBackend is a client for the storage service's REST API.
type HTTPBackend struct {
	client *req.Client
}

func NewHTTP(baseURL string) *HTTPBackend {
	client := req.C().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetUserAgent("minicloud").
		SetCommonRetryCount(0).
		SetJsonMarshal(json.Marshal).
		SetJsonUnmarshal(json.Unmarshal)

	return &HTTPBackend{client: client}
}

func (b *HTTPBackend) Upload(ctx context.Context, filename string, r io.Reader) error {
	if filename == "" {
		return ErrNoFilename
	}
	if r == nil {
		return ErrNilSource
	}

	resp, err := b.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{"filename": filename}).
		SetFileReader("file", filename, r).
		Post(routeUpload)
	if err != nil {
		return fmt.Errorf("storage: upload %q: %w", filename, err)
	}

	return checkStatus(resp, "upload", filename)
}

func (b *HTTPBackend) List(ctx context.Context) ([]byte, error) {
	resp, err := b.client.R().
		SetContext(ctx).
		Get(routeList)
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}

	if err := checkStatus(resp, "list", ""); err != nil {
		return nil, err
	}

	body, err := resp.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("storage: list: read body: %w", err)
	}
	return body, nil
}

func (b *HTTPBackend) Download(ctx context.Context, filename string) (io.ReadCloser, error) {
	if filename == "" {
		return nil, ErrNoFilename
	}

	resp, err := b.client.R().
		SetContext(ctx).
		SetPathParam("filename", filename).
		DisableAutoReadResponse().
		Get(routeDownload)
	if err != nil {
		return nil, fmt.Errorf("storage: download %q: %w", filename, err)
	}

	if !isOK(resp) {
		defer resp.Body.Close()
		return nil, statusError(resp, "download", filename)
	}

	return resp.Body, nil
}

func (b *HTTPBackend) Delete(ctx context.Context, filename string) error {
	if filename == "" {
		return ErrNoFilename
	}

	resp, err := b.client.R().
		SetContext(ctx).
		SetPathParam("filename", filename).
		Delete(routeDelete)
	if err != nil {
		return fmt.Errorf("storage: delete %q: %w", filename, err)
	}

	return checkStatus(resp, "delete", filename)
}

func isOK(resp *req.Response) bool {
	return resp.Response != nil && resp.StatusCode >= 200 && resp.StatusCode < 300
}

func checkStatus(resp *req.Response, op, filename string) error {
	if isOK(resp) {
		return nil
	}
	return statusError(resp, op, filename)
}

func statusError(resp *req.Response, op, filename string) *StatusError {
	serr := &StatusError{Op: op, Filename: filename}
	if resp.Response == nil {
		return serr
	}
	serr.StatusCode = resp.StatusCode

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if len(body) == 0 {
		// auto-read responses have already drained the body
		body = resp.Bytes()
	}
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	serr.Body = strings.TrimSpace(string(body))
	return serr
}
