package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sohamroyc/Api-directory/internal/domain"
)

// State exposes the persisted collections with their JSON encoding.
// Every accessor goes straight to the KV; nothing is cached here.
type State struct {
	kv KV
}

// NewState wraps a KV backend.
func NewState(kv KV) *State {
	return &State{kv: kv}
}

// Ping checks the backend when it supports it.
func (s *State) Ping(ctx context.Context) error {
	if p, ok := s.kv.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Keys lists the application keys currently stored. Backends that cannot
// enumerate are probed for each of AllKeys.
func (s *State) Keys(ctx context.Context) ([]string, error) {
	if l, ok := s.kv.(KeyLister); ok {
		return l.Keys(ctx)
	}
	keys := make([]string, 0, len(AllKeys()))
	for _, k := range AllKeys() {
		_, err := s.kv.Get(ctx, k)
		switch {
		case err == nil:
			keys = append(keys, k)
		case errors.Is(err, ErrNotFound):
		default:
			return nil, fmt.Errorf("failed to probe %s: %w", k, err)
		}
	}
	return keys, nil
}

// Listings returns the persisted catalog. found is false when the key is absent.
func (s *State) Listings(ctx context.Context) (listings []domain.ApiListing, found bool, err error) {
	found, err = s.load(ctx, KeyListings, &listings)
	return listings, found, err
}

// SaveListings replaces the persisted catalog.
func (s *State) SaveListings(ctx context.Context, listings []domain.ApiListing) error {
	return s.save(ctx, KeyListings, nonNil(listings))
}

// Sources returns the citations of the latest discovery.
func (s *State) Sources(ctx context.Context) (sources []domain.DiscoverySource, found bool, err error) {
	found, err = s.load(ctx, KeySources, &sources)
	return sources, found, err
}

// SaveSources replaces the persisted citations wholesale.
func (s *State) SaveSources(ctx context.Context, sources []domain.DiscoverySource) error {
	return s.save(ctx, KeySources, nonNil(sources))
}

// Users returns every stored user record. An absent key reads as empty.
func (s *State) Users(ctx context.Context) ([]domain.StoredUser, error) {
	var users []domain.StoredUser
	if _, err := s.load(ctx, KeyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SaveUsers replaces the stored user records.
func (s *State) SaveUsers(ctx context.Context, users []domain.StoredUser) error {
	return s.save(ctx, KeyUsers, nonNil(users))
}

// Favorites returns every favorite link of every user. An absent key reads as empty.
func (s *State) Favorites(ctx context.Context) ([]domain.FavoriteLink, error) {
	var links []domain.FavoriteLink
	if _, err := s.load(ctx, KeyFavorites, &links); err != nil {
		return nil, err
	}
	return links, nil
}

// SaveFavorites replaces the favorite links.
func (s *State) SaveFavorites(ctx context.Context, links []domain.FavoriteLink) error {
	return s.save(ctx, KeyFavorites, nonNil(links))
}

// Session returns the persisted session. ok is false unless both the
// current user and the token are present.
func (s *State) Session(ctx context.Context) (user domain.UserAccount, token string, ok bool, err error) {
	foundUser, err := s.load(ctx, KeyCurrentUser, &user)
	if err != nil {
		return domain.UserAccount{}, "", false, err
	}
	foundToken, err := s.load(ctx, KeyAuthToken, &token)
	if err != nil {
		return domain.UserAccount{}, "", false, err
	}
	if !foundUser || !foundToken {
		return domain.UserAccount{}, "", false, nil
	}
	return user, token, true, nil
}

// SaveSession writes the current user, then the token.
func (s *State) SaveSession(ctx context.Context, user domain.UserAccount, token string) error {
	if err := s.save(ctx, KeyCurrentUser, user); err != nil {
		return err
	}
	return s.save(ctx, KeyAuthToken, token)
}

// ClearSession removes the session entries. Other users' data is untouched.
func (s *State) ClearSession(ctx context.Context) error {
	if err := s.kv.Remove(ctx, KeyCurrentUser); err != nil {
		return fmt.Errorf("failed to remove %s: %w", KeyCurrentUser, err)
	}
	if err := s.kv.Remove(ctx, KeyAuthToken); err != nil {
		return fmt.Errorf("failed to remove %s: %w", KeyAuthToken, err)
	}
	return nil
}

func (s *State) load(ctx context.Context, key string, v any) (bool, error) {
	data, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (s *State) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// nonNil keeps empty collections encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
