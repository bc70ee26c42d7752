package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sohamroyc/Api-directory/internal/controller"
	"github.com/sohamroyc/Api-directory/internal/domain"
	"github.com/sohamroyc/Api-directory/internal/httpserver/deps"
)

type discoverResponse struct {
	Category string              `json:"category"`
	Added    int                 `json:"added"`
	Listings []domain.ApiListing `json:"listings"`
}

// Discover runs one catalog refresh for the selected category. The refresh
// is detached from the request: a client disconnect does not abort it.
// A failed discovery is logged by the controller and reported as added: 0.
func Discover(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := d.Controller.Refresh(context.WithoutCancel(r.Context()))
		if errors.Is(err, controller.ErrRefreshRunning) {
			fail(w, d.Logger, "discover", err)
			return
		}

		added := res.Added
		if err != nil || added == nil {
			added = []domain.ApiListing{}
		}
		writeJSON(w, http.StatusOK, discoverResponse{
			Category: res.Category,
			Added:    len(added),
			Listings: added,
		})
	}
}
