// Package coordinator runs user operations against storage and the
// summarizer and keeps the client state consistent with their outcomes.
package coordinator

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"minicloud/internal/listing"
	"minicloud/internal/notify"
	"minicloud/internal/registry"
	"minicloud/internal/session"
	"minicloud/internal/storage"
)

type Option func(*Coordinator)

func WithSink(sink notify.Sink) Option {
	return func(c *Coordinator) {
		c.sink = sink
	}
}

// WithCenter also delivers notifications to center and exposes its active
// entries in Snapshot.
func WithCenter(center *notify.Center) Option {
	return func(c *Coordinator) {
		c.center = center
	}
}

func WithSaver(saver Saver) Option {
	return func(c *Coordinator) {
		c.saver = saver
	}
}

func WithSession(s *session.Session) Option {
	return func(c *Coordinator) {
		c.session = s
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

type Coordinator struct {
	storage    storage.Backend
	summarizer Summarizer
	saver      Saver
	sink       notify.Sink
	center     *notify.Center
	logger     *slog.Logger

	registry *registry.Registry
	session  *session.Session
	ops      *tracker

	mu      sync.Mutex
	pending map[string]PendingDelete
}

func New(backend storage.Backend, summarizer Summarizer, opts ...Option) *Coordinator {
	c := &Coordinator{
		storage:    backend,
		summarizer: summarizer,
		saver:      DirSaver{Dir: "."},
		logger:     slog.Default(),
		registry:   registry.New(),
		session:    session.New(),
		ops:        newTracker(),
		pending:    make(map[string]PendingDelete),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sink == nil {
		c.sink = notify.LogSink{Logger: c.logger}
	}
	return c
}

// State is a point-in-time copy of everything the client shows.
type State struct {
	Files          []string              `json:"files"`
	ListingVersion uint64                `json:"listing_version"`
	ListingLoading bool                  `json:"listing_loading"`
	ListingUpdated time.Time             `json:"listing_updated,omitzero"`
	Summary        session.Snapshot      `json:"summary"`
	Operations     []Operation           `json:"operations"`
	PendingDeletes []PendingDelete       `json:"pending_deletes,omitempty"`
	Notifications  []notify.Notification `json:"notifications,omitempty"`
}

// FetchListing replaces the registry with the remote listing. On failure the
// registry keeps its previous contents and a notification is emitted; the
// error is returned for callers that need an exit status.
func (c *Coordinator) FetchListing(ctx context.Context) error {
	id := c.ops.start(OpList, "")

	files, err := c.list(ctx)
	if err != nil {
		lerr := &ListingFailedError{Err: err}
		c.ops.finish(OpList, "", id, lerr)
		c.emit(notify.New(notify.LevelError, "", "Could not fetch the file list", lerr))
		return lerr
	}

	version := c.registry.Replace(files)
	c.ops.finish(OpList, "", id, nil)
	c.logger.Debug("listing refreshed", slog.Int("files", len(files)), slog.Uint64("version", version))
	return nil
}

func (c *Coordinator) list(ctx context.Context) ([]string, error) {
	payload, err := c.storage.List(ctx)
	if err != nil {
		return nil, err
	}
	return listing.Normalize(payload)
}

// DownloadFile fetches filename and hands it to the saver. The registry is
// not touched.
func (c *Coordinator) DownloadFile(ctx context.Context, filename string) (string, error) {
	id := c.ops.start(OpDownload, filename)

	path, err := c.download(ctx, filename)
	if err != nil {
		derr := &DownloadFailedError{Filename: filename, Err: err}
		c.ops.finish(OpDownload, filename, id, derr)
		c.emit(notify.New(notify.LevelError, filename, "Download failed: "+filename, derr))
		return "", derr
	}

	c.ops.finish(OpDownload, filename, id, nil)
	c.logger.Debug("downloaded", slog.String("filename", filename), slog.String("path", path))
	c.emit(notify.New(notify.LevelSuccess, filename, "Downloaded: "+filename, nil))
	return path, nil
}

func (c *Coordinator) download(ctx context.Context, filename string) (string, error) {
	if filename == "" {
		return "", ErrNoFilename
	}

	body, err := c.storage.Download(ctx, filename)
	if err != nil {
		return "", err
	}
	defer body.Close()

	return c.saver.Save(filename, body)
}

func (c *Coordinator) Files() []string {
	return c.registry.Files()
}

func (c *Coordinator) Summary() session.Snapshot {
	return c.session.Snapshot()
}

func (c *Coordinator) Snapshot() State {
	st := State{
		Files:          c.registry.Files(),
		ListingVersion: c.registry.Version(),
		ListingLoading: c.ops.inFlight(OpList) > 0,
		ListingUpdated: c.registry.UpdatedAt(),
		Summary:        c.session.Snapshot(),
		Operations:     c.ops.snapshot(),
	}

	c.mu.Lock()
	for _, p := range c.pending {
		st.PendingDeletes = append(st.PendingDeletes, p)
	}
	c.mu.Unlock()
	slices.SortFunc(st.PendingDeletes, func(a, b PendingDelete) int {
		return a.RequestedAt.Compare(b.RequestedAt)
	})

	if c.center != nil {
		st.Notifications = c.center.Active()
	}
	return st
}

func (c *Coordinator) emit(n notify.Notification) {
	if c.center != nil {
		c.center.Notify(n)
	}
	c.sink.Notify(n)
}
