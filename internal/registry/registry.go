// Package registry holds the client's current view of the remote file list.
package registry

import (
	"slices"
	"sync"
	"time"
)

// Registry is replaced wholesale on every successful listing; it is never
// patched entry by entry.
type Registry struct {
	mu        sync.RWMutex
	files     []string
	version   uint64
	updatedAt time.Time
}

func New() *Registry {
	return &Registry{files: []string{}}
}

// Replace swaps in a new listing and returns the registry version it produced.
func (r *Registry) Replace(files []string) uint64 {
	next := slices.Clone(files)
	if next == nil {
		next = []string{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = next
	r.version++
	r.updatedAt = time.Now()
	return r.version
}

func (r *Registry) Files() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.files)
}

func (r *Registry) Contains(filename string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Contains(r.files, filename)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.files)
}

// Version is zero until the first successful listing.
func (r *Registry) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

func (r *Registry) UpdatedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.updatedAt
}
