package coordinator

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"minicloud/internal/notify"
)

// PendingDelete is a delete that waits for the user's answer. Nothing has
// been sent to storage yet.
type PendingDelete struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	RequestedAt time.Time `json:"requested_at"`
}

type Confirmer interface {
	Confirm(filename string) bool
}

type ConfirmFunc func(filename string) bool

func (f ConfirmFunc) Confirm(filename string) bool { return f(filename) }

func (c *Coordinator) RequestDelete(filename string) PendingDelete {
	p := PendingDelete{
		ID:          uuid.NewString(),
		Filename:    filename,
		RequestedAt: time.Now(),
	}

	c.mu.Lock()
	c.pending[p.ID] = p
	c.mu.Unlock()
	return p
}

// ConfirmDelete resolves the handle and deletes the file. On success the
// listing is refreshed; on failure it is left as is.
func (c *Coordinator) ConfirmDelete(ctx context.Context, id string) error {
	p, ok := c.takePending(id)
	if !ok {
		return ErrUnknownConfirmation
	}

	opID := c.ops.start(OpDelete, p.Filename)
	if err := c.storage.Delete(ctx, p.Filename); err != nil {
		derr := &DeleteFailedError{Filename: p.Filename, Err: err}
		c.ops.finish(OpDelete, p.Filename, opID, derr)
		c.emit(notify.New(notify.LevelError, p.Filename, "Delete failed: "+p.Filename, derr))
		return derr
	}

	c.ops.finish(OpDelete, p.Filename, opID, nil)
	c.logger.Debug("deleted", slog.String("filename", p.Filename))
	c.emit(notify.New(notify.LevelSuccess, p.Filename, "Deleted: "+p.Filename, nil))

	_ = c.FetchListing(ctx)
	return nil
}

func (c *Coordinator) CancelDelete(id string) error {
	if _, ok := c.takePending(id); !ok {
		return ErrUnknownConfirmation
	}
	return nil
}

// DeleteFile asks confirm and deletes on a yes. A no returns nil without
// touching storage or emitting anything.
func (c *Coordinator) DeleteFile(ctx context.Context, filename string, confirm Confirmer) error {
	p := c.RequestDelete(filename)
	if confirm == nil || !confirm.Confirm(filename) {
		return c.CancelDelete(p.ID)
	}
	return c.ConfirmDelete(ctx, p.ID)
}

func (c *Coordinator) takePending(id string) (PendingDelete, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pending[id]
	if ok {
		delete(c.pending, id)
	}
	return p, ok
}
