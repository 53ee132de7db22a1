// Package notify carries operation outcomes to the user as transient
// notifications.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Filename  string    `json:"filename,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Err       error     `json:"-"`
}

func New(level Level, filename, message string, err error) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		Filename:  filename,
		CreatedAt: time.Now(),
		Err:       err,
	}
}

// Sink receives notifications in emission order. Implementations must not
// block for long; they run on the caller's goroutine.
type Sink interface {
	Notify(n Notification)
}

type SinkFunc func(n Notification)

func (f SinkFunc) Notify(n Notification) { f(n) }

// Fanout delivers each notification to every sink in order.
type Fanout []Sink

func (f Fanout) Notify(n Notification) {
	for _, sink := range f {
		if sink != nil {
			sink.Notify(n)
		}
	}
}

// LogSink mirrors notifications into a structured logger.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Notify(n Notification) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	attrs := []any{"level", string(n.Level), "id", n.ID}
	if n.Filename != "" {
		attrs = append(attrs, "filename", n.Filename)
	}

	if n.Err != nil {
		logger.Warn(n.Message, append(attrs, "error", n.Err)...)
		return
	}
	logger.Debug(n.Message, attrs...)
}

// Recorder keeps every notification it receives.
type Recorder struct {
	mu   sync.Mutex
	list []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = append(r.list, n)
}

func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.list))
	copy(out, r.list)
	return out
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.list)
}
