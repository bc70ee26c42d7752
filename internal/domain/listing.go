package domain

import "time"

// ApiListing represents one catalog entry describing a discoverable public API.
//
// A listing is identified for deduplication purposes by the (Name, Website)
// pair, not by ID. Listings are never deleted explicitly; they only fall off
// the end of the catalog when the size cap is exceeded.
type ApiListing struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is an opaque identifier assigned at creation time.
	// Discovered listings use "<unix-millis>-<index>".
	ID string `json:"id"`

	// Name is the official API name.
	// Example: PokeAPI
	Name string `json:"name"`

	// Website is the documentation or homepage URL.
	Website string `json:"website"`

	// ─────────────────────────────
	// Functional description
	// ─────────────────────────────

	Description  string   `json:"description"`
	Category     Category `json:"category"`
	AuthRequired bool     `json:"auth_required"`

	// ─────────────────────────────
	// Provenance
	// ─────────────────────────────

	// Source tags where the listing came from.
	// Example: "Curated List", "Google Search"
	Source string `json:"source"`

	// CreatedAt is the time the listing entered the catalog.
	CreatedAt time.Time `json:"created_at"`

	// ─────────────────────────────
	// Enrichment
	// ─────────────────────────────

	// AISummary is populated asynchronously after creation.
	// It is the only field mutated once the listing exists.
	AISummary string `json:"ai_summary,omitempty"`
}

// DedupKey returns the identity used to detect duplicate listings.
func (l ApiListing) DedupKey() string {
	return l.Name + "-" + l.Website
}

// DiscoverySource is a citation attached to the most recent discovery call.
type DiscoverySource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}
