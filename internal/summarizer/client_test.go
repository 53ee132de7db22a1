package summarizer

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, status int, body string) (*httptest.Server, *Request) {
	t.Helper()
	received := &Request{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/summarize" {
			http.NotFound(w, r)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, received)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, received
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"Summary key", `{"summary": "X"}`, "X"},
		{"Text key", `{"text": "Y"}`, "Y"},
		{"Summary preferred", `{"text": "Y", "summary": "X"}`, "X"},
		{"Empty summary falls back to text", `{"summary": "", "text": "Y"}`, "Y"},
		{"No known key", `{"result": "Z"}`, DefaultSummary},
		{"Markdown kept", `{"summary": "# Title\n- point"}`, "# Title\n- point"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, received := newServer(t, http.StatusOK, tt.body)
			client := New(server.URL)

			summary, err := client.Summarize(context.Background(), "doc.pdf")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, summary)
			assert.Equal(t, "doc.pdf", received.Filename)
		})
	}
}

func TestSummarizeErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{"Detail string", http.StatusInternalServerError, `{"detail": "boom"}`, "boom"},
		{"Detail list", http.StatusUnprocessableEntity, `{"detail": [{"msg": "field required"}]}`, `[{"msg":"field required"}]`},
		{"No detail", http.StatusBadRequest, `{"error": "x"}`, "HTTP 400: Bad Request"},
		{"Not json", http.StatusBadGateway, `<html>bad gateway</html>`, "HTTP 502: Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newServer(t, tt.status, tt.body)
			client := New(server.URL)

			_, err := client.Summarize(context.Background(), "doc.pdf")
			require.Error(t, err)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestSummarizeBadResponse(t *testing.T) {
	for _, body := range []string{`not json`, `null`, `["a"]`} {
		server, _ := newServer(t, http.StatusOK, body)
		client := New(server.URL)

		_, err := client.Summarize(context.Background(), "doc.pdf")
		assert.ErrorIs(t, err, ErrBadResponse, "body %q", body)
	}
}

func TestSummarizeUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := New(url).Summarize(context.Background(), "doc.pdf")
	require.Error(t, err)

	var apiErr *Error
	assert.False(t, errors.As(err, &apiErr))
}

func TestSummarizeRequiresFilename(t *testing.T) {
	_, err := New("http://127.0.0.1:1").Summarize(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoFilename)
}
