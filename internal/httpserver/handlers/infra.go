package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sohamroyc/Api-directory/internal/httpserver/deps"
)

type componentStatus struct {
	OK             bool   `json:"ok"`
	ListingsLoaded *int   `json:"listings_loaded,omitempty"`
	KeysStored     *int   `json:"keys_stored,omitempty"`
	LastUpdate     string `json:"last_update,omitempty"`
	LastDiscovery  string `json:"last_discovery,omitempty"`
	Backend        string `json:"backend,omitempty"`
	Model          string `json:"model,omitempty"`
	Impact         string `json:"impact,omitempty"`
	Error          string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of the catalog, the persisted store and the
// discovery provider.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		components := map[string]componentStatus{
			"catalog":   catalogStatus(d),
			"store":     storeStatus(ctx, d),
			"discovery": discoveryStatus(d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	// Without the store nothing survives a restart.
	if s, ok := components["store"]; ok && !s.OK {
		return "critical"
	}
	// Browsing and accounts keep working without discovery.
	if g, ok := components["discovery"]; ok && !g.OK {
		return "degraded"
	}
	return "operational"
}

func catalogStatus(d deps.Deps) componentStatus {
	n := d.Index.Count()
	return componentStatus{
		OK:             n > 0,
		ListingsLoaded: &n,
		LastUpdate:     formatTime(d.Index.GetLastUpdate()),
		LastDiscovery:  formatTime(d.Index.GetLastDiscovery()),
	}
}

func storeStatus(ctx context.Context, d deps.Deps) componentStatus {
	st := componentStatus{OK: true, Backend: d.StoreBackend}
	if err := d.Store.Ping(ctx); err != nil {
		st.OK = false
		st.Impact = "changes-not-persisted"
		st.Error = err.Error()
		return st
	}
	if d.StoreKeys != nil {
		if keys, err := d.StoreKeys.Keys(ctx); err == nil {
			n := len(keys)
			st.KeysStored = &n
		}
	}
	return st
}

func discoveryStatus(d deps.Deps) componentStatus {
	if d.Discovery == nil || !d.Discovery.Configured() {
		return componentStatus{
			OK:     false,
			Impact: "discovery-disabled",
			Error:  "no API key configured",
		}
	}
	return componentStatus{OK: true, Model: d.Discovery.Model()}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.UTC().Format(time.RFC3339)
}
