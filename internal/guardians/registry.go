// Package guardians keeps the ordered set of contacts to notify about a trip.
package guardians

import (
	"log/slog"
	"strings"
	"sync"
)

// Registry is an ordered, duplicate-free collection of guardian contact
// identifiers (phone numbers kept as opaque strings). Insertion order is
// preserved for display; identity is exact string equality after trimming.
type Registry struct {
	mu       sync.Mutex
	log      *slog.Logger
	entries  []string
	onChange func([]string) // invoked with a snapshot after every mutation
}

// NewRegistry creates an empty Registry. The onChange callback receives a
// fresh snapshot of the list after every successful add or remove; it may
// be nil.
func NewRegistry(log *slog.Logger, onChange func([]string)) *Registry {
	return &Registry{log: log, onChange: onChange}
}

// Add trims the identifier and appends it to the list. Identifiers that are
// empty after trimming, or already present, are ignored without error.
// It reports whether the list changed.
func (r *Registry) Add(identifier string) bool {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return false
	}

	r.mu.Lock()
	for _, existing := range r.entries {
		if existing == identifier {
			r.mu.Unlock()
			r.log.Debug("Ignoring duplicate guardian", "identifier", identifier)
			return false
		}
	}
	r.entries = append(r.entries, identifier)
	snapshot := r.snapshotLocked()
	r.mu.Unlock()

	r.notify(snapshot)
	return true
}

// Remove deletes the identifier from the list. Removing an identifier that
// is not present is a no-op. It reports whether the list changed.
func (r *Registry) Remove(identifier string) bool {
	r.mu.Lock()
	kept := r.entries[:0]
	for _, existing := range r.entries {
		if existing != identifier {
			kept = append(kept, existing)
		}
	}
	changed := len(kept) != len(r.entries)
	r.entries = kept
	snapshot := r.snapshotLocked()
	r.mu.Unlock()

	if changed {
		r.notify(snapshot)
	}
	return changed
}

// Entries returns a snapshot of the list in first-insertion order.
func (r *Registry) Entries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Len returns the number of registered guardians.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) snapshotLocked() []string {
	snapshot := make([]string, len(r.entries))
	copy(snapshot, r.entries)
	return snapshot
}

func (r *Registry) notify(snapshot []string) {
	if r.onChange != nil {
		r.onChange(snapshot)
	}
}
