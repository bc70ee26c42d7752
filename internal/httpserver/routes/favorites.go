package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/sohamroyc/Api-directory/internal/httpserver/deps"
	"github.com/sohamroyc/Api-directory/internal/httpserver/handlers"
)

func init() { Register(registerFavorites) }

func registerFavorites(r chi.Router, d deps.Deps) {
	bounded(r, d).Post("/api/favorites/{apiID}", handlers.ToggleFavorite(d))
}
