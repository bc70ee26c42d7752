// Package metrics exposes the Prometheus collectors of the directory.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "apidir"

// Label values.
const (
	ResultOK       = "ok"
	ResultError    = "error"
	ResultFallback = "fallback"

	ActionAdded   = "added"
	ActionRemoved = "removed"
)

// Metrics groups every collector behind small recording helpers.
type Metrics struct {
	registry *prometheus.Registry

	discoveryRequests  *prometheus.CounterVec
	discoveredListings prometheus.Counter
	summaries          *prometheus.CounterVec
	authEvents         *prometheus.CounterVec
	favoriteToggles    *prometheus.CounterVec
	catalogSize        prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		discoveryRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discovery_requests_total",
			Help:      "Discover calls by result.",
		}, []string{"result"}),
		discoveredListings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discovered_listings_total",
			Help:      "Listings added to the catalog by discovery after deduplication.",
		}),
		summaries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_total",
			Help:      "Summarize calls by result.",
		}, []string{"result"}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Signup, login and logout attempts by result.",
		}, []string{"op", "result"}),
		favoriteToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "favorite_toggles_total",
			Help:      "Favorite toggles by action.",
		}, []string{"action"}),
		catalogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_size",
			Help:      "Listings currently in the catalog.",
		}),
	}

	m.registry.MustRegister(
		m.discoveryRequests,
		m.discoveredListings,
		m.summaries,
		m.authEvents,
		m.favoriteToggles,
		m.catalogSize,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Discovery(result string, added int) {
	if m == nil {
		return
	}
	m.discoveryRequests.WithLabelValues(result).Inc()
	m.discoveredListings.Add(float64(added))
}

func (m *Metrics) Summary(result string) {
	if m == nil {
		return
	}
	m.summaries.WithLabelValues(result).Inc()
}

func (m *Metrics) Auth(op, result string) {
	if m == nil {
		return
	}
	m.authEvents.WithLabelValues(op, result).Inc()
}

func (m *Metrics) FavoriteToggle(favorited bool) {
	if m == nil {
		return
	}
	action := ActionRemoved
	if favorited {
		action = ActionAdded
	}
	m.favoriteToggles.WithLabelValues(action).Inc()
}

func (m *Metrics) CatalogSize(n int) {
	if m == nil {
		return
	}
	m.catalogSize.Set(float64(n))
}
