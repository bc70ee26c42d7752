package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/sohamroyc/Api-directory/internal/httpserver/deps"
	"github.com/sohamroyc/Api-directory/internal/httpserver/handlers"
)

func init() { Register(registerListings) }

func registerListings(r chi.Router, d deps.Deps) {
	sub := bounded(r, d)
	sub.Get("/api/listings", handlers.Listings(d))
	sub.Get("/api/categories", handlers.Categories(d))
	sub.Get("/api/sources", handlers.Sources(d))
}
