package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sohamroyc/Api-directory/internal/httpserver/deps"
	"github.com/sohamroyc/Api-directory/internal/logger"
)

const pingTimeout = 2 * time.Second

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Store string `json:"store"`
	Error string `json:"error,omitempty"`
}

// Readyz is ready once the persisted store answers a ping.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		if err := d.Store.Ping(ctx); err != nil {
			d.Logger.Warn("readiness check failed", logger.String("store", d.StoreBackend), logger.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Store: d.StoreBackend, Error: "store unreachable"})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true, Store: d.StoreBackend})
	}
}
