package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/sohamroyc/Api-directory/internal/httpserver/deps"
	"github.com/sohamroyc/Api-directory/internal/httpserver/handlers"
)

func init() { Register(registerDiscover) }

// Discovery runs past the request timeout.
func registerDiscover(r chi.Router, d deps.Deps) {
	api(r, d).Post("/api/discover", handlers.Discover(d))
}
