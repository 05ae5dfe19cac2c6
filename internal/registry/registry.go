package registry

import (
	"sync"
	"time"

	"github.com/verran/presenz/internal/models"
)

// entry pairs a stored record with ingest metadata that never leaves the
// process. The submitting origin is held for rate accounting and operator
// logs only and is stripped from every export.
type entry struct {
	record models.PlayerRecord
	origin string
}

// Registry is the keyed upsert store. One entry per (playerName, jobId);
// a new submission for an existing key fully replaces the old record.
type Registry struct {
	entries map[models.Key]entry
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[models.Key]entry)}
}

// Upsert stores rec under its identity key, overwriting any previous entry.
// LastUpdated is stamped here so reporters cannot forge it.
func (r *Registry) Upsert(rec models.PlayerRecord, origin string, now time.Time) {
	rec.LastUpdated = now

	r.mu.Lock()
	r.entries[rec.Key()] = entry{record: rec, origin: origin}
	r.mu.Unlock()
}

// Snapshot returns a sanitized copy of every current record. The submitting
// origin is never included, stored records stay raw, and iteration order is
// not guaranteed.
func (r *Registry) Snapshot() []models.PlayerRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.PlayerRecord, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, Sanitize(e.record))
	}

	return out
}

// Delete removes the entry for key and reports whether one existed.
func (r *Registry) Delete(key models.Key) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[key]; !ok {
		return false
	}
	delete(r.entries, key)

	return true
}

// SweepBefore drops records whose last update predates cutoff and returns
// how many were removed.
func (r *Registry) SweepBefore(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for key, e := range r.entries {
		if e.record.LastUpdated.Before(cutoff) {
			delete(r.entries, key)
			removed++
		}
	}

	return removed
}

// Len returns the number of tracked records.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}
