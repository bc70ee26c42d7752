// Package catalog implements the pure operations over the in-memory list of
// API listings: filtering, merging newly discovered entries and attaching
// summaries.
package catalog

import (
	"sort"
	"strings"

	"github.com/sohamroyc/Api-directory/internal/domain"
)

// Scope selects which listings a filter considers.
type Scope string

const (
	// ScopeAll matches across the whole catalog, honoring the category.
	ScopeAll Scope = "all"
	// ScopeFavorites restricts to favorite ids and ignores the category.
	ScopeFavorites Scope = "favorites"
)

// ParseScope defaults anything unknown to ScopeAll.
func ParseScope(s string) Scope {
	if Scope(s) == ScopeFavorites {
		return ScopeFavorites
	}
	return ScopeAll
}

// Filter returns the listings matching query and category (or favoriteIDs
// when scope is ScopeFavorites), most recent first.
//
// query is matched case-insensitively as a substring of name or description.
// Ties on CreatedAt keep input order. The input slice is not modified.
func Filter(listings []domain.ApiListing, query string, category domain.Category, favoriteIDs []string, scope Scope) []domain.ApiListing {
	q := strings.ToLower(query)

	var favs map[string]struct{}
	if scope == ScopeFavorites {
		favs = make(map[string]struct{}, len(favoriteIDs))
		for _, id := range favoriteIDs {
			favs[id] = struct{}{}
		}
	}

	out := make([]domain.ApiListing, 0, len(listings))
	for _, l := range listings {
		if !matchesQuery(l, q) {
			continue
		}
		if scope == ScopeFavorites {
			if _, ok := favs[l.ID]; !ok {
				continue
			}
		} else if category != domain.CategoryAll && l.Category != category {
			continue
		}
		out = append(out, l)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func matchesQuery(l domain.ApiListing, lowered string) bool {
	if lowered == "" {
		return true
	}
	return strings.Contains(strings.ToLower(l.Name), lowered) ||
		strings.Contains(strings.ToLower(l.Description), lowered)
}
