package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/sohamroyc/Api-directory/internal/httpserver/deps"
	"github.com/sohamroyc/Api-directory/internal/httpserver/handlers"
)

func init() { Register(registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	sub := bounded(r, d)
	sub.Get("/api/session", handlers.Session(d))
	sub.Post("/api/logout", handlers.Logout(d))

	// signup and login share one bucket per client
	limited := sub.With(throttled(d))
	limited.Post("/api/signup", handlers.Signup(d))
	limited.Post("/api/login", handlers.Login(d))
}
