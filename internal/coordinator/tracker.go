package coordinator

import (
	"cmp"
	"slices"
	"sync"
	"time"
)

type OpKind string

const (
	OpList      OpKind = "list"
	OpUpload    OpKind = "upload"
	OpDownload  OpKind = "download"
	OpDelete    OpKind = "delete"
	OpSummarize OpKind = "summarize"
)

type OpStatus string

const (
	StatusInFlight  OpStatus = "in_flight"
	StatusSucceeded OpStatus = "succeeded"
	StatusFailed    OpStatus = "failed"
)

// Operation is the latest known state of one kind of call on one file.
type Operation struct {
	ID         uint64    `json:"id"`
	Kind       OpKind    `json:"kind"`
	Filename   string    `json:"filename,omitempty"`
	Status     OpStatus  `json:"status"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
}

type opKey struct {
	kind     OpKind
	filename string
}

// tracker keeps one entry per (kind, filename). A newer call replaces the
// entry; an older call finishing late does not overwrite it.
type tracker struct {
	mu  sync.Mutex
	seq uint64
	ops map[opKey]Operation
}

func newTracker() *tracker {
	return &tracker{ops: make(map[opKey]Operation)}
}

func (t *tracker) start(kind OpKind, filename string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	t.ops[opKey{kind, filename}] = Operation{
		ID:        t.seq,
		Kind:      kind,
		Filename:  filename,
		Status:    StatusInFlight,
		StartedAt: time.Now(),
	}
	return t.seq
}

func (t *tracker) finish(kind OpKind, filename string, id uint64, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := opKey{kind, filename}
	op, ok := t.ops[key]
	if !ok || op.ID != id {
		return
	}

	op.FinishedAt = time.Now()
	op.Status = StatusSucceeded
	if err != nil {
		op.Status = StatusFailed
		op.Error = err.Error()
	}
	t.ops[key] = op
}

func (t *tracker) inFlight(kind OpKind) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for key, op := range t.ops {
		if key.kind == kind && op.Status == StatusInFlight {
			n++
		}
	}
	return n
}

func (t *tracker) snapshot() []Operation {
	t.mu.Lock()
	out := make([]Operation, 0, len(t.ops))
	for _, op := range t.ops {
		out = append(out, op)
	}
	t.mu.Unlock()

	slices.SortFunc(out, func(a, b Operation) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
