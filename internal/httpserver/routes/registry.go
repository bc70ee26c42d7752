package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sohamroyc/Api-directory/internal/httpserver/deps"
	"github.com/sohamroyc/Api-directory/internal/httpserver/mw"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type entry struct {
	reg Registrar
	mws []Middleware
}

var registry []entry

// Register a registrar with optional per-route middlewares.
func Register(reg Registrar, mws ...Middleware) {
	registry = append(registry, entry{reg: reg, mws: mws})
}

// RegisterAll is called once from server.New().
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, e := range registry {
		if len(e.mws) == 0 {
			e.reg(r, d)
			continue
		}
		sub := r.With(e.mws...) // apply per-route middlewares
		e.reg(sub, d)
	}
}

// api applies the Host check to /api routes.
func api(r chi.Router, d deps.Deps) chi.Router {
	return r.With(mw.EnforceHost(d.AllowedHosts, d.Logger))
}

// bounded is api plus the per-request timeout.
func bounded(r chi.Router, d deps.Deps) chi.Router {
	sub := api(r, d)
	if d.RequestTimeout > 0 {
		sub = sub.With(middleware.Timeout(d.RequestTimeout))
	}
	return sub
}

// throttled limits each client IP to d.AuthRateLimit requests per minute.
func throttled(d deps.Deps) Middleware {
	return mw.RateLimit(mw.RateLimitConfig{
		PerMinute:  d.AuthRateLimit,
		TrustProxy: d.TrustProxy,
	}, d.Logger)
}

// ops restricts operational endpoints to the allowed CIDRs.
func ops(r chi.Router, d deps.Deps) chi.Router {
	return r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
}
