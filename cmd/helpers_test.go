package cmd

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

// fakeCloud serves both the storage and the summarization endpoints.
type fakeCloud struct {
	mu         sync.Mutex
	files      map[string]string
	order      []string
	calls      []string
	failUpload map[string]bool
	failList   bool
}

func newFakeCloud(t *testing.T, initial ...string) *fakeCloud {
	t.Helper()
	fc := &fakeCloud{files: map[string]string{}, failUpload: map[string]bool{}}
	for _, name := range initial {
		fc.put(name, "content of "+name)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", fc.handleUpload)
	mux.HandleFunc("GET /list", fc.handleList)
	mux.HandleFunc("GET /download/{name}", fc.handleDownload)
	mux.HandleFunc("DELETE /delete/{name}", fc.handleDelete)
	mux.HandleFunc("POST /summarize", fc.handleSummarize)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	t.Setenv("MINICLOUD_BACKEND", "http")
	t.Setenv("MINICLOUD_STORAGE_URL", srv.URL)
	t.Setenv("MINICLOUD_SUMMARIZER_URL", srv.URL)
	return fc
}

func (fc *fakeCloud) put(name, content string) {
	if _, ok := fc.files[name]; !ok {
		fc.order = append(fc.order, name)
	}
	fc.files[name] = content
}

func (fc *fakeCloud) record(call string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.calls = append(fc.calls, call)
}

func (fc *fakeCloud) Calls() []string {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return slices.Clone(fc.calls)
}

func (fc *fakeCloud) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	name := r.FormValue("filename")
	fc.record("upload:" + name)

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()
	data, _ := io.ReadAll(file)

	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.failUpload[name] {
		http.Error(w, "disk full", http.StatusInternalServerError)
		return
	}
	fc.put(name, string(data))
	w.Write([]byte(`{"status":"success"}`))
}

func (fc *fakeCloud) handleList(w http.ResponseWriter, r *http.Request) {
	fc.record("list")
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.failList {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	quoted := make([]string, 0, len(fc.order))
	for _, name := range fc.order {
		quoted = append(quoted, "'"+name+"'")
	}
	w.Write([]byte("[" + strings.Join(quoted, ", ") + "]"))
}

func (fc *fakeCloud) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	fc.record("download:" + name)
	fc.mu.Lock()
	data, ok := fc.files[name]
	fc.mu.Unlock()
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Write([]byte(data))
}

func (fc *fakeCloud) handleDelete(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	fc.record("delete:" + name)
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if _, ok := fc.files[name]; !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	delete(fc.files, name)
	fc.order = slices.DeleteFunc(fc.order, func(s string) bool { return s == name })
	w.Write([]byte(`{"status":"success"}`))
}

func (fc *fakeCloud) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filename string `json:"filename"`
	}
	json.NewDecoder(r.Body).Decode(&req)
	fc.record("summarize:" + req.Filename)

	w.Header().Set("Content-Type", "application/json")
	if req.Filename == "broken.pdf" {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"boom"}`))
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"summary": "# " + req.Filename + "\n\nShort summary."})
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()

	var stdout bytes.Buffer
	stderr := &syncBuffer{}

	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func decode[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
