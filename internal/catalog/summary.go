package catalog

import "github.com/sohamroyc/Api-directory/internal/domain"

// SummaryUpdate carries the result of a background summarization back into
// the catalog update path.
type SummaryUpdate struct {
	ListingID string
	Summary   string
}

// AttachSummary sets AISummary on the listing with the given id and returns
// the updated copy of listings. Listings that share a name are not touched.
// An unknown id (for example an entry evicted meanwhile) is a no-op.
func AttachSummary(listings []domain.ApiListing, id, summary string) []domain.ApiListing {
	out := make([]domain.ApiListing, len(listings))
	copy(out, listings)
	for i := range out {
		if out[i].ID == id {
			out[i].AISummary = summary
			break
		}
	}
	return out
}
