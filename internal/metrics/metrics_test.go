package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rw := httptest.NewRecorder()
	m.Handler().ServeHTTP(rw, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rw.Result().Body)
	require.NoError(t, err)
	return string(body)
}

func value(body, metric string) string {
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, metric+" ") {
			return strings.Fields(line)[1]
		}
	}
	return ""
}

func TestRecording(t *testing.T) {
	m := New()
	m.Discovery(ResultOK, 3)
	m.Discovery(ResultError, 0)
	m.Summary(ResultFallback)
	m.Auth("login", ResultOK)
	m.FavoriteToggle(true)
	m.FavoriteToggle(false)
	m.FavoriteToggle(false)
	m.CatalogSize(42)

	body := scrape(t, m)
	assert.Equal(t, "1", value(body, `apidir_discovery_requests_total{result="ok"}`))
	assert.Equal(t, "1", value(body, `apidir_discovery_requests_total{result="error"}`))
	assert.Equal(t, "3", value(body, `apidir_discovered_listings_total`))
	assert.Equal(t, "1", value(body, `apidir_summaries_total{result="fallback"}`))
	assert.Equal(t, "1", value(body, `apidir_auth_events_total{op="login",result="ok"}`))
	assert.Equal(t, "1", value(body, `apidir_favorite_toggles_total{action="added"}`))
	assert.Equal(t, "2", value(body, `apidir_favorite_toggles_total{action="removed"}`))
	assert.Equal(t, "42", value(body, `apidir_catalog_size`))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Discovery(ResultOK, 1)
		m.Summary(ResultOK)
		m.Auth("signup", ResultError)
		m.FavoriteToggle(true)
		m.CatalogSize(1)
	})
	rw := httptest.NewRecorder()
	m.Handler().ServeHTTP(rw, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 404, rw.Code)
}
