package seed

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/sohamroyc/Api-directory/internal/catalog"
	"github.com/sohamroyc/Api-directory/internal/domain"
)

// Mapper converts a seed file to catalog listings
type Mapper struct {
	now func() time.Time
}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{now: time.Now}
}

// MapListings converts the file to listings in file order.
// Unknown category groups land in Others; entries without a parsable
// http(s) website are skipped.
func (m *Mapper) MapListings(file File) ([]domain.ApiListing, error) {
	var listings []domain.ApiListing
	now := m.now()

	for _, group := range file {
		for _, categoryName := range sortedKeys(group) {
			category := domain.NormalizeCategory(categoryName)

			for _, entryMap := range group[categoryName] {
				for _, name := range sortedKeys(entryMap) {
					entry := entryMap[name]
					if !validWebsite(entry.Website) {
						continue
					}

					source := entry.Source
					if source == "" {
						source = catalog.SourceCurated
					}

					listings = append(listings, domain.ApiListing{
						ID:           generateListingID(name, entry.Website),
						Name:         name,
						Website:      entry.Website,
						Description:  entry.Description,
						Category:     category,
						AuthRequired: entry.AuthRequired,
						Source:       source,
						CreatedAt:    now,
						AISummary:    entry.Summary,
					})
				}
			}
		}
	}

	if len(listings) == 0 {
		return nil, fmt.Errorf("no valid listings found in seed file")
	}

	return listings, nil
}

// generateListingID derives a stable id from the dedup identity so that
// reloading the same file yields the same ids.
func generateListingID(name, website string) string {
	hash := sha256.Sum256([]byte(name + "-" + website))
	return "seed-" + hex.EncodeToString(hash[:])[:16]
}

func validWebsite(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
