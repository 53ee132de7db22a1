package coordinator

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"minicloud/internal/notify"
)

// UploadTask names one file of a batch. Open is called only when the task's
// turn comes, so later files are not read while earlier ones upload.
type UploadTask struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// FileTask uploads the file at path under name, or under the path's base
// name when name is empty.
func FileTask(path, name string) UploadTask {
	if name == "" {
		name = filepath.Base(path)
	}
	return UploadTask{
		Name: name,
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

func BytesTask(name string, content []byte) UploadTask {
	return UploadTask{
		Name: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}
}

type UploadOutcome struct {
	Filename string
	Size     int64
	Err      error
}

func (o UploadOutcome) OK() bool { return o.Err == nil }

// UploadBatch uploads tasks one at a time in order. A failed file does not
// stop the batch. The listing is refreshed once after the last file, whatever
// the individual outcomes were.
func (c *Coordinator) UploadBatch(ctx context.Context, tasks []UploadTask) []UploadOutcome {
	outcomes := make([]UploadOutcome, 0, len(tasks))
	for _, task := range tasks {
		outcomes = append(outcomes, c.upload(ctx, task))
	}

	// Failures are already reported through the sink.
	_ = c.FetchListing(ctx)
	return outcomes
}

func (c *Coordinator) upload(ctx context.Context, task UploadTask) UploadOutcome {
	out := UploadOutcome{Filename: task.Name}
	id := c.ops.start(OpUpload, task.Name)

	size, err := c.send(ctx, task)
	out.Size = size
	if err != nil {
		out.Err = &UploadFailedError{Filename: task.Name, Err: err}
		c.ops.finish(OpUpload, task.Name, id, out.Err)
		c.emit(notify.New(notify.LevelError, task.Name, "Upload failed: "+task.Name, out.Err))
		return out
	}

	c.ops.finish(OpUpload, task.Name, id, nil)
	c.logger.Debug("uploaded", slog.String("filename", task.Name), slog.Int64("size", size))
	c.emit(notify.New(notify.LevelSuccess, task.Name, "Uploaded: "+task.Name, nil))
	return out
}

func (c *Coordinator) send(ctx context.Context, task UploadTask) (int64, error) {
	if task.Name == "" {
		return 0, ErrNoFilename
	}
	if task.Open == nil {
		return 0, os.ErrInvalid
	}

	rc, err := task.Open()
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	counter := &countingReader{r: rc}
	if err := c.storage.Upload(ctx, task.Name, counter); err != nil {
		return counter.n, err
	}
	return counter.n, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
