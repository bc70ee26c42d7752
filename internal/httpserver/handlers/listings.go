package handlers

import (
	"net/http"
	"strings"

	"github.com/sohamroyc/Api-directory/internal/catalog"
	"github.com/sohamroyc/Api-directory/internal/controller"
	"github.com/sohamroyc/Api-directory/internal/domain"
	"github.com/sohamroyc/Api-directory/internal/httpserver/deps"
)

type listingsResponse struct {
	Listings []domain.ApiListing `json:"listings"`
	Count    int                 `json:"count"`
	Total    int                 `json:"total"`
}

// Listings filters the catalog by ?q=, ?category= and ?scope= without
// changing the view state.
func Listings(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		category := domain.CategoryAll
		if raw := strings.TrimSpace(q.Get("category")); raw != "" {
			c, ok := domain.ParseCategory(raw)
			if !ok {
				writeError(w, http.StatusBadRequest, controller.ErrUnknownCategory.Error()+": "+raw)
				return
			}
			category = c
		}

		listings, err := d.Controller.Listings(r.Context(), q.Get("q"), category, catalog.ParseScope(q.Get("scope")))
		if err != nil {
			fail(w, d.Logger, "listings", err)
			return
		}
		writeJSON(w, http.StatusOK, listingsResponse{
			Listings: listings,
			Count:    len(listings),
			Total:    d.Index.Count(),
		})
	}
}

// Categories lists the fixed categories, "All" first.
func Categories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string][]domain.Category{"categories": domain.Categories})
	}
}

// Sources returns the grounding sources of the last successful discovery.
func Sources(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string][]domain.DiscoverySource{"sources": d.Index.Sources()})
	}
}
