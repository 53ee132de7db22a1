// Package summarizer is a client for the summarization service.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/imroc/req/v3"
)

const (
	routeSummarize = "/summarize"

	// DefaultSummary is used when a successful response carries no summary.
	DefaultSummary = "Summary generated successfully."
)

// SummaryKeys are probed in order on a successful response.
var SummaryKeys = []string{"summary", "text"}

var (
	ErrNoFilename  = errors.New("summarizer: filename required")
	ErrBadResponse = errors.New("summarizer: unparseable response")
)

type Request struct {
	Filename string `json:"filename"`
}

// Error is a non-2xx answer from the service. Detail holds the service's own
// explanation when it sent one.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

type Client struct {
	client *req.Client
}

func New(baseURL string) *Client {
	client := req.C().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetUserAgent("minicloud").
		SetCommonRetryCount(0).
		SetJsonMarshal(json.Marshal).
		SetJsonUnmarshal(json.Unmarshal)

	return &Client{client: client}
}

// Summarize asks the service to summarize filename as it exists in the
// service's own view of storage. Only the name is sent.
func (c *Client) Summarize(ctx context.Context, filename string) (string, error) {
	if filename == "" {
		return "", ErrNoFilename
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBodyJsonMarshal(&Request{Filename: filename}).
		Post(routeSummarize)
	if err != nil {
		return "", fmt.Errorf("summarizer: request: %w", err)
	}

	body := resp.Bytes()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &Error{StatusCode: resp.StatusCode, Detail: errorDetail(body)}
	}

	return parseSummary(body)
}

func parseSummary(body []byte) (string, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if payload == nil {
		return "", ErrBadResponse
	}

	for _, key := range SummaryKeys {
		if text, ok := payload[key].(string); ok && text != "" {
			return text, nil
		}
	}
	return DefaultSummary, nil
}

// errorDetail extracts the "detail" field of an error payload. Non-string
// details (validation error lists) are rendered as JSON.
func errorDetail(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	switch detail := payload["detail"].(type) {
	case nil:
		return ""
	case string:
		return detail
	default:
		b, err := json.Marshal(detail)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
