package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sohamroyc/Api-directory/internal/httpserver/deps"
)

type toggleResponse struct {
	Favorited   bool     `json:"favorited"`
	FavoriteIDs []string `json:"favorite_ids"`
}

// ToggleFavorite flips {apiID} in the session user's favorites. The id is
// not checked against the catalog.
func ToggleFavorite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apiID := chi.URLParam(r, "apiID")
		if apiID == "" {
			writeError(w, http.StatusBadRequest, "missing api id")
			return
		}

		favorited, ids, err := d.Controller.ToggleFavorite(r.Context(), apiID)
		if err != nil {
			fail(w, d.Logger, "favorite", err)
			return
		}
		if ids == nil {
			ids = []string{}
		}
		writeJSON(w, http.StatusOK, toggleResponse{Favorited: favorited, FavoriteIDs: ids})
	}
}
