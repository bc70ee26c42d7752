package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sohamroyc/Api-directory/internal/auth"
	"github.com/sohamroyc/Api-directory/internal/catalog"
	"github.com/sohamroyc/Api-directory/internal/config"
	"github.com/sohamroyc/Api-directory/internal/controller"
	"github.com/sohamroyc/Api-directory/internal/discovery"
	"github.com/sohamroyc/Api-directory/internal/domain"
	"github.com/sohamroyc/Api-directory/internal/favorites"
	"github.com/sohamroyc/Api-directory/internal/httpserver/deps"
	"github.com/sohamroyc/Api-directory/internal/index"
	"github.com/sohamroyc/Api-directory/internal/logger"
	"github.com/sohamroyc/Api-directory/internal/metrics"
	"github.com/sohamroyc/Api-directory/internal/scheduler"
	"github.com/sohamroyc/Api-directory/internal/store"
	"github.com/sohamroyc/Api-directory/internal/store/memory"
)

type fakeDiscoverer struct {
	mu     sync.Mutex
	result discovery.Result
	err    error
}

func (f *fakeDiscoverer) Discover(ctx context.Context, category string) (discovery.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result, f.err
}

func (f *fakeDiscoverer) Summarize(ctx context.Context, name, description string) string {
	return "summary of " + name
}

func (f *fakeDiscoverer) Configured() bool { return f.err == nil }
func (f *fakeDiscoverer) Model() string    { return "fake-model" }

type downStore struct{}

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

type testEnv struct {
	handler http.Handler
	disc    *fakeDiscoverer
	idx     *index.MemoryIndex
}

func newEnv(t *testing.T, tweak func(cfg *config.Config, d *deps.Deps)) *testEnv {
	t.Helper()

	state := store.NewState(memory.New())
	idx := index.NewMemoryIndex()
	idx.Replace(catalog.Seed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))

	m := metrics.New()
	book := favorites.New(state)
	accounts := auth.New(state, book, logger.Nop(), m)
	applier := scheduler.NewSummaryApplier(state, idx, logger.Nop())
	applier.Start(context.Background())
	t.Cleanup(applier.Stop)

	disc := &fakeDiscoverer{}
	ctl := controller.New(controller.Deps{
		State:      state,
		Index:      idx,
		Accounts:   accounts,
		Favorites:  book,
		Discoverer: disc,
		Summaries:  applier,
		Logger:     logger.Nop(),
		Metrics:    m,
	}, 0)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = ctl.WaitSummaries(ctx)
	})

	cfg := &config.Config{ListenPort: ":0"}
	d := deps.Deps{
		Logger:         logger.Nop(),
		StartTime:      time.Now(),
		Version:        "test",
		RequestTimeout: time.Second,
		Controller:     ctl,
		Index:          idx,
		Store:          state,
		StoreBackend:   config.StoreMemory,
		StoreKeys:      state,
		Discovery:      disc,
		Metrics:        m,
	}
	if tweak != nil {
		tweak(cfg, &d)
	}
	return &testEnv{handler: New(cfg, logger.Nop(), d).Handler(), disc: disc, idx: idx}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rw := httptest.NewRecorder()
	e.handler.ServeHTTP(rw, req)
	return rw
}

func decode[T any](t *testing.T, rw *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &v), rw.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	env := newEnv(t, nil)
	rw := env.do(t, "GET", "/healthz", "")
	require.Equal(t, http.StatusOK, rw.Code)
	body := decode[map[string]any](t, rw)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestReadyz(t *testing.T) {
	env := newEnv(t, nil)
	rw := env.do(t, "GET", "/readyz", "")
	assert.Equal(t, http.StatusOK, rw.Code)

	down := newEnv(t, func(_ *config.Config, d *deps.Deps) { d.Store = downStore{} })
	rw = down.do(t, "GET", "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rw.Code)
	assert.Equal(t, false, decode[map[string]any](t, rw)["ready"])
}

func TestInfra(t *testing.T) {
	env := newEnv(t, nil)
	rw := env.do(t, "GET", "/infra", "")
	require.Equal(t, http.StatusOK, rw.Code)

	var body struct {
		Mode       string                    `json:"mode"`
		Components map[string]map[string]any `json:"components"`
	}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &body))
	assert.Equal(t, "operational", body.Mode)
	assert.EqualValues(t, 3, body.Components["catalog"]["listings_loaded"])
	assert.Equal(t, "memory", body.Components["store"]["backend"])
	assert.EqualValues(t, 0, body.Components["store"]["keys_stored"], "seeds are not persisted")
	assert.Equal(t, "fake-model", body.Components["discovery"]["model"])

	env.disc.err = domain.ErrDiscoveryUnavailable
	body.Mode = ""
	require.NoError(t, json.Unmarshal(env.do(t, "GET", "/infra", "").Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Mode)

	down := newEnv(t, func(_ *config.Config, d *deps.Deps) { d.Store = downStore{} })
	require.NoError(t, json.Unmarshal(down.do(t, "GET", "/infra", "").Body.Bytes(), &body))
	assert.Equal(t, "critical", body.Mode)
}

func TestOpsEndpointsHonorCIDRs(t *testing.T) {
	env := newEnv(t, func(_ *config.Config, d *deps.Deps) { d.AllowedCIDRS = []string{"10.0.0.0/8"} })

	for _, path := range []string{"/readyz", "/infra", "/metrics"} {
		rw := env.do(t, "GET", path, "")
		assert.Equal(t, http.StatusForbidden, rw.Code, path)
	}
	assert.Equal(t, http.StatusOK, env.do(t, "GET", "/healthz", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newEnv(t, nil)
	rw := env.do(t, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, rw.Code)
	assert.Contains(t, rw.Body.String(), "go_goroutines")
}

func TestViewFlow(t *testing.T) {
	env := newEnv(t, nil)

	vm := decode[controller.ViewModel](t, env.do(t, "GET", "/api/view", ""))
	assert.Equal(t, controller.ViewLanding, vm.View)
	assert.Equal(t, domain.CategoryAll, vm.Category)
	assert.Equal(t, 3, vm.Total)
	assert.Len(t, vm.Listings, 3)
	assert.Nil(t, vm.User)
	assert.Empty(t, vm.FavoriteIDs)

	rw := env.do(t, "POST", "/api/view", `{"view":"dashboard","category":"Entertainment","query":"poke"}`)
	require.Equal(t, http.StatusOK, rw.Code)
	vm = decode[controller.ViewModel](t, rw)
	assert.Equal(t, controller.ViewDashboard, vm.View)
	require.Len(t, vm.Listings, 1)
	assert.Equal(t, "PokeAPI", vm.Listings[0].Name)

	rw = env.do(t, "POST", "/api/view", `{"view":"favorites"}`)
	require.Equal(t, http.StatusOK, rw.Code)
	assert.Equal(t, controller.ViewLogin, decode[controller.ViewModel](t, rw).View, "favorites need a session")

	rw = env.do(t, "POST", "/api/view", `{"view":"nowhere","query":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rw.Code)
	vm = decode[controller.ViewModel](t, env.do(t, "GET", "/api/view", ""))
	assert.Equal(t, "poke", vm.Query, "invalid update changes nothing")

	rw = env.do(t, "POST", "/api/view", `{"category":"Weather"}`)
	assert.Equal(t, http.StatusBadRequest, rw.Code)

	rw = env.do(t, "POST", "/api/view", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rw.Code)
}

func TestListingsEndpoints(t *testing.T) {
	env := newEnv(t, nil)

	body := decode[struct {
		Listings []domain.ApiListing `json:"listings"`
		Count    int                 `json:"count"`
		Total    int                 `json:"total"`
	}](t, env.do(t, "GET", "/api/listings?q=JSON", ""))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, 3, body.Total)
	assert.Equal(t, "JSONPlaceholder", body.Listings[0].Name)

	rw := env.do(t, "GET", "/api/listings?category=Developer+Tools", "")
	require.Equal(t, http.StatusOK, rw.Code)
	assert.Contains(t, rw.Body.String(), "JSONPlaceholder")

	rw = env.do(t, "GET", "/api/listings?scope=favorites", "")
	require.Equal(t, http.StatusOK, rw.Code)
	assert.Contains(t, rw.Body.String(), `"listings":[]`)

	assert.Equal(t, http.StatusBadRequest, env.do(t, "GET", "/api/listings?category=Weather", "").Code)

	cats := decode[map[string][]string](t, env.do(t, "GET", "/api/categories", ""))
	require.Len(t, cats["categories"], 10)
	assert.Equal(t, "All", cats["categories"][0])

	assert.JSONEq(t, `{"sources":[]}`, env.do(t, "GET", "/api/sources", "").Body.String())
}

func TestAuthFlow(t *testing.T) {
	env := newEnv(t, nil)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, "GET", "/api/session", "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, "POST", "/api/signup", `{"email":"ada@example.com"}`).Code)

	rw := env.do(t, "POST", "/api/signup", `{"username":"ada","email":"ada@example.com","password":"pw"}`)
	require.Equal(t, http.StatusCreated, rw.Code, rw.Body.String())
	sess := decode[domain.Session](t, rw)
	assert.Equal(t, "ada", sess.User.Username)
	assert.Equal(t, auth.Token(sess.User.ID), sess.Token)
	assert.NotContains(t, rw.Body.String(), "password")

	rw = env.do(t, "POST", "/api/signup", `{"username":"other","email":"ada@example.com","password":"x"}`)
	assert.Equal(t, http.StatusConflict, rw.Code)
	assert.Equal(t, "Email already exists", decode[map[string]string](t, rw)["error"])

	rw = env.do(t, "GET", "/api/session", "")
	require.Equal(t, http.StatusOK, rw.Code)
	assert.Equal(t, sess.User.ID, decode[domain.Session](t, rw).User.ID)

	assert.Equal(t, http.StatusNoContent, env.do(t, "POST", "/api/logout", "").Code)
	assert.Equal(t, http.StatusNoContent, env.do(t, "POST", "/api/logout", "").Code, "logout is idempotent")

	rw = env.do(t, "POST", "/api/login", `{"email":"ada@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rw.Code)
	assert.Equal(t, "Invalid email or password", decode[map[string]string](t, rw)["error"])

	rw = env.do(t, "POST", "/api/login", `{"email":"ada@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rw.Code)
	assert.Equal(t, []string{}, decode[domain.Session](t, rw).FavoriteIDs)

	vm := decode[controller.ViewModel](t, env.do(t, "GET", "/api/view", ""))
	assert.Equal(t, controller.ViewDashboard, vm.View)
	require.NotNil(t, vm.User)
	assert.Equal(t, "ada@example.com", vm.User.Email)
}

func TestFavorites(t *testing.T) {
	env := newEnv(t, nil)

	rw := env.do(t, "POST", "/api/favorites/1", "")
	assert.Equal(t, http.StatusUnauthorized, rw.Code)
	vm := decode[controller.ViewModel](t, env.do(t, "GET", "/api/view", ""))
	assert.Equal(t, controller.ViewLogin, vm.View)

	require.Equal(t, http.StatusCreated, env.do(t, "POST", "/api/signup", `{"username":"bo","email":"bo@example.com","password":"pw"}`).Code)

	type toggle struct {
		Favorited   bool     `json:"favorited"`
		FavoriteIDs []string `json:"favorite_ids"`
	}
	got := decode[toggle](t, env.do(t, "POST", "/api/favorites/2", ""))
	assert.True(t, got.Favorited)
	assert.Equal(t, []string{"2"}, got.FavoriteIDs)

	rw = env.do(t, "POST", "/api/view", `{"view":"favorites"}`)
	vm = decode[controller.ViewModel](t, rw)
	assert.Equal(t, controller.ViewFavorites, vm.View)
	require.Len(t, vm.Listings, 1)
	assert.Equal(t, "OpenWeatherMap", vm.Listings[0].Name)

	got = decode[toggle](t, env.do(t, "POST", "/api/favorites/2", ""))
	assert.False(t, got.Favorited)
	assert.Equal(t, []string{}, got.FavoriteIDs)
}

func TestDiscover(t *testing.T) {
	env := newEnv(t, nil)
	env.disc.result = discovery.Result{
		Listings: []domain.ApiListing{
			{
				ID: "1767225600000-0", Name: "PokeAPI", Website: "https://pokeapi.co/",
				Category: domain.CategoryEntertainment, CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			},
			{
				ID: "1767225600000-1", Name: "Numbers", Website: "https://numbers.example.com",
				Category: domain.CategoryData, CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		Sources: []domain.DiscoverySource{{Title: "Docs", URI: "https://docs.example.com"}},
	}

	rw := env.do(t, "POST", "/api/discover", "")
	require.Equal(t, http.StatusOK, rw.Code)
	body := decode[struct {
		Category string              `json:"category"`
		Added    int                 `json:"added"`
		Listings []domain.ApiListing `json:"listings"`
	}](t, rw)
	assert.Equal(t, controller.MostPopular, body.Category)
	assert.Equal(t, 1, body.Added)
	assert.Equal(t, "Numbers", body.Listings[0].Name)
	assert.Equal(t, 4, env.idx.Count())

	assert.JSONEq(t, `{"sources":[{"title":"Docs","uri":"https://docs.example.com"}]}`,
		env.do(t, "GET", "/api/sources", "").Body.String())

	env.disc.err = errors.New("model overloaded")
	rw = env.do(t, "POST", "/api/discover", "")
	require.Equal(t, http.StatusOK, rw.Code)
	assert.Equal(t, float64(0), decode[map[string]any](t, rw)["added"])
	assert.Equal(t, 4, env.idx.Count(), "failed discovery leaves the catalog untouched")
}

func TestEnforceHostOnAPI(t *testing.T) {
	env := newEnv(t, func(_ *config.Config, d *deps.Deps) { d.AllowedHosts = []string{"apis.example.com"} })

	assert.Equal(t, http.StatusForbidden, env.do(t, "GET", "/api/view", "").Code)
	assert.Equal(t, http.StatusOK, env.do(t, "GET", "/healthz", "").Code)

	req := httptest.NewRequest("GET", "/api/view", nil)
	req.Host = "apis.example.com:8080"
	rw := httptest.NewRecorder()
	env.handler.ServeHTTP(rw, req)
	assert.Equal(t, http.StatusOK, rw.Code)
}

func TestLoginIsRateLimited(t *testing.T) {
	env := newEnv(t, func(_ *config.Config, d *deps.Deps) { d.AuthRateLimit = 2 })

	for range 2 {
		rw := env.do(t, "POST", "/api/login", `{"email":"x@example.com","password":"pw"}`)
		assert.Equal(t, http.StatusUnauthorized, rw.Code)
	}
	rw := env.do(t, "POST", "/api/login", `{"email":"x@example.com","password":"pw"}`)
	assert.Equal(t, http.StatusTooManyRequests, rw.Code)
	assert.NotEmpty(t, rw.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, env.do(t, "GET", "/api/view", "").Code, "reads are not limited")
}

func TestCORS(t *testing.T) {
	env := newEnv(t, func(cfg *config.Config, _ *deps.Deps) { cfg.CORSOrigins = []string{"https://app.example.com"} })

	req := httptest.NewRequest("GET", "/api/categories", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rw := httptest.NewRecorder()
	env.handler.ServeHTTP(rw, req)
	assert.Equal(t, "https://app.example.com", rw.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("GET", "/api/categories", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rw = httptest.NewRecorder()
	env.handler.ServeHTTP(rw, req)
	assert.Empty(t, rw.Header().Get("Access-Control-Allow-Origin"))
}
