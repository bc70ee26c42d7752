package index

import (
	"context"
	"sync"
	"time"

	"github.com/sohamroyc/Api-directory/internal/domain"
)

// MemoryIndex holds the live catalog and the citations of the latest discovery.
// Listings keep their catalog order (newest merges first); the Persisted Store
// is the durable copy and is written by callers after each mutation.
type MemoryIndex struct {
	commitMu      sync.Mutex // serializes Commit so persisted snapshots follow mutation order
	mu            sync.RWMutex
	listings      []domain.ApiListing
	byID          map[string]int // ID -> position in listings
	sources       []domain.DiscoverySource
	lastUpdate    time.Time // Timestamp of last catalog mutation
	lastDiscovery time.Time // Timestamp of last SetSources
}

// NewMemoryIndex creates an empty index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		byID: make(map[string]int),
	}
}

// Replace swaps the whole catalog
func (idx *MemoryIndex) Replace(listings []domain.ApiListing) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.set(listings)
}

// Apply runs fn on a copy of the catalog under the write lock and stores
// its result. It returns a copy of the stored catalog.
// fn must not call back into the index.
func (idx *MemoryIndex) Apply(fn func([]domain.ApiListing) []domain.ApiListing) []domain.ApiListing {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.set(fn(clone(idx.listings)))
	return clone(idx.listings)
}

// Commit applies fn like Apply, then hands the result to persist before any
// other Commit may run. Readers are not blocked while persist runs.
// The in-memory catalog keeps the new value even when persist fails.
func (idx *MemoryIndex) Commit(
	ctx context.Context,
	fn func([]domain.ApiListing) []domain.ApiListing,
	persist func(context.Context, []domain.ApiListing) error,
) ([]domain.ApiListing, error) {
	idx.commitMu.Lock()
	defer idx.commitMu.Unlock()

	out := idx.Apply(fn)
	if persist == nil {
		return out, nil
	}
	return out, persist(ctx, out)
}

// All returns a snapshot of the catalog in order
func (idx *MemoryIndex) All() []domain.ApiListing {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return clone(idx.listings)
}

// Get retrieves a listing by ID
func (idx *MemoryIndex) Get(id string) (domain.ApiListing, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	i, ok := idx.byID[id]
	if !ok {
		return domain.ApiListing{}, false
	}
	return idx.listings[i], true
}

// Count returns the number of listings
func (idx *MemoryIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.listings)
}

// GetLastUpdate returns the timestamp of the last catalog mutation
func (idx *MemoryIndex) GetLastUpdate() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastUpdate
}

// ─────────────────────────────────────────────────────────────────
// Discovery sources
// ─────────────────────────────────────────────────────────────────

// SetSources replaces the citations wholesale
func (idx *MemoryIndex) SetSources(sources []domain.DiscoverySource) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.sources = append([]domain.DiscoverySource(nil), sources...)
	idx.lastDiscovery = time.Now()
}

// Sources returns the citations of the latest discovery
func (idx *MemoryIndex) Sources() []domain.DiscoverySource {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]domain.DiscoverySource, len(idx.sources))
	copy(out, idx.sources)
	return out
}

// GetLastDiscovery returns when sources were last replaced
func (idx *MemoryIndex) GetLastDiscovery() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastDiscovery
}

// set must be called with mu held for writing.
func (idx *MemoryIndex) set(listings []domain.ApiListing) {
	idx.listings = clone(listings)
	idx.byID = make(map[string]int, len(listings))
	for i, l := range idx.listings {
		if _, dup := idx.byID[l.ID]; !dup {
			idx.byID[l.ID] = i
		}
	}
	idx.lastUpdate = time.Now()
}

func clone(listings []domain.ApiListing) []domain.ApiListing {
	out := make([]domain.ApiListing, len(listings))
	copy(out, listings)
	return out
}
