package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/sohamroyc/Api-directory/internal/httpserver/deps"
	"github.com/sohamroyc/Api-directory/internal/httpserver/handlers"
)

func init() { Register(registerView) }

func registerView(r chi.Router, d deps.Deps) {
	sub := bounded(r, d)
	sub.Get("/api/view", handlers.GetView(d))
	sub.Post("/api/view", handlers.PostView(d))
}
