// Package favorites keeps the per-user favorite links in the Persisted Store.
package favorites

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sohamroyc/Api-directory/internal/domain"
	"github.com/sohamroyc/Api-directory/internal/store"
)

// Book toggles and lists favorite links. Every call reads and rewrites the
// persisted collection, so the store stays the only copy.
type Book struct {
	mu    sync.Mutex
	state *store.State
	now   func() time.Time
}

// New creates a Book backed by the persisted favorites collection.
func New(state *store.State) *Book {
	return &Book{state: state, now: time.Now}
}

// Toggle inserts the (userID, apiID) link when absent and removes it when
// present. It reports whether the listing is a favorite afterwards.
// apiID is not checked against the catalog.
func (b *Book) Toggle(ctx context.Context, userID, apiID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	links, err := b.state.Favorites(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load favorites: %w", err)
	}

	kept := make([]domain.FavoriteLink, 0, len(links)+1)
	removed := false
	for _, l := range links {
		if l.UserID == userID && l.ApiID == apiID {
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	if !removed {
		kept = append(kept, domain.FavoriteLink{UserID: userID, ApiID: apiID, CreatedAt: b.now()})
	}

	if err := b.state.SaveFavorites(ctx, kept); err != nil {
		return false, fmt.Errorf("failed to save favorites: %w", err)
	}
	return !removed, nil
}

// IDs returns the listing ids favorited by userID, oldest link first.
func (b *Book) IDs(ctx context.Context, userID string) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	links, err := b.state.Favorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}

	ids := make([]string, 0)
	for _, l := range links {
		if l.UserID == userID {
			ids = append(ids, l.ApiID)
		}
	}
	return ids, nil
}
