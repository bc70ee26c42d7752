package catalog

import "github.com/sohamroyc/Api-directory/internal/domain"

// MaxListings caps the catalog. Overflow drops the oldest entries.
const MaxListings = 100

// Fresh returns the incoming listings whose (name, website) key is not
// already in existing, in incoming order. Duplicates inside incoming are
// kept, matching the catalog's behavior of only checking against what is
// already stored.
func Fresh(existing, incoming []domain.ApiListing) []domain.ApiListing {
	seen := make(map[string]struct{}, len(existing))
	for _, l := range existing {
		seen[l.DedupKey()] = struct{}{}
	}

	out := make([]domain.ApiListing, 0, len(incoming))
	for _, l := range incoming {
		if _, dup := seen[l.DedupKey()]; dup {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Merge prepends the fresh incoming listings to existing and truncates the
// result to MaxListings, so new entries evict the oldest existing ones.
func Merge(existing, incoming []domain.ApiListing) []domain.ApiListing {
	fresh := Fresh(existing, incoming)

	merged := make([]domain.ApiListing, 0, len(fresh)+len(existing))
	merged = append(merged, fresh...)
	merged = append(merged, existing...)

	if len(merged) > MaxListings {
		merged = merged[:MaxListings]
	}
	return merged
}
