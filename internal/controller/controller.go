// Package controller owns the view state of the directory and wires user
// actions to the auth, favorites, catalog and discovery components.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sohamroyc/Api-directory/internal/catalog"
	"github.com/sohamroyc/Api-directory/internal/discovery"
	"github.com/sohamroyc/Api-directory/internal/domain"
	"github.com/sohamroyc/Api-directory/internal/index"
	"github.com/sohamroyc/Api-directory/internal/logger"
	"github.com/sohamroyc/Api-directory/internal/metrics"
	"github.com/sohamroyc/Api-directory/internal/store"
)

// MostPopular is the discovery topic used while the "All" category is selected.
const MostPopular = "Most Popular"

// DefaultSummarizeFirst is how many new listings get a background summary.
const DefaultSummarizeFirst = 2

var (
	// ErrUnknownView is returned for a view name outside the known screens.
	ErrUnknownView = errors.New("unknown view")
	// ErrUnknownCategory is returned for a category outside the fixed set.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrRefreshRunning is returned while a discovery is already loading.
	ErrRefreshRunning = errors.New("a discovery is already running")
)

// Accounts is the session surface used by the controller.
type Accounts interface {
	Signup(ctx context.Context, username, email, password string) (domain.Session, error)
	Login(ctx context.Context, email, password string) (domain.Session, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (domain.Session, bool, error)
}

// Favorites toggles favorite links.
type Favorites interface {
	Toggle(ctx context.Context, userID, apiID string) (bool, error)
}

// Discoverer proposes and summarizes listings.
type Discoverer interface {
	Discover(ctx context.Context, category string) (discovery.Result, error)
	Summarize(ctx context.Context, name, description string) string
}

// SummarySink receives background summaries.
type SummarySink interface {
	Submit(u catalog.SummaryUpdate) bool
}

// Deps are the collaborators of a Controller.
type Deps struct {
	State      *store.State
	Index      *index.MemoryIndex
	Accounts   Accounts
	Favorites  Favorites
	Discoverer Discoverer
	Summaries  SummarySink
	Logger     logger.Logger
	Metrics    *metrics.Metrics
}

// Controller holds the single view state of the process.
type Controller struct {
	deps           Deps
	summarizeFirst int

	mu       sync.Mutex
	view     View
	query    string
	category domain.Category
	loading  bool

	pending sync.WaitGroup
}

// New starts on the landing view with every category selected.
// summarizeFirst <= 0 uses DefaultSummarizeFirst.
func New(deps Deps, summarizeFirst int) *Controller {
	if summarizeFirst <= 0 {
		summarizeFirst = DefaultSummarizeFirst
	}
	return &Controller{
		deps:           deps,
		summarizeFirst: summarizeFirst,
		view:           ViewLanding,
		category:       domain.CategoryAll,
	}
}

// Restore moves to the dashboard when a session was reconstituted at startup.
func (c *Controller) Restore(ctx context.Context) error {
	_, ok, err := c.deps.Accounts.Current(ctx)
	if err != nil {
		return err
	}
	if ok {
		c.setView(ViewDashboard)
	}
	return nil
}

// ViewModel derives the current screen.
func (c *Controller) ViewModel(ctx context.Context) (ViewModel, error) {
	sess, loggedIn, err := c.deps.Accounts.Current(ctx)
	if err != nil {
		return ViewModel{}, err
	}

	c.mu.Lock()
	view, query, category, loading := c.view, c.query, c.category, c.loading
	c.mu.Unlock()

	scope := catalog.ScopeAll
	if view == ViewFavorites {
		scope = catalog.ScopeFavorites
	}

	vm := ViewModel{
		View:        view,
		Query:       query,
		Category:    category,
		Scope:       scope,
		Loading:     loading,
		FavoriteIDs: []string{},
		Sources:     c.deps.Index.Sources(),
	}
	if loggedIn {
		user := sess.User
		vm.User = &user
		vm.FavoriteIDs = sess.FavoriteIDs
	}
	if t := c.deps.Index.GetLastDiscovery(); !t.IsZero() {
		vm.LastDiscovery = &t
	}

	all := c.deps.Index.All()
	vm.Total = len(all)
	vm.Listings = catalog.Filter(all, query, category, vm.FavoriteIDs, scope)
	return vm, nil
}

// Listings filters the catalog without touching the view state. Favorites
// scope uses the session's favorites, none when logged out.
func (c *Controller) Listings(ctx context.Context, query string, category domain.Category, scope catalog.Scope) ([]domain.ApiListing, error) {
	var favs []string
	if scope == catalog.ScopeFavorites {
		sess, ok, err := c.deps.Accounts.Current(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			favs = sess.FavoriteIDs
		}
	}
	return catalog.Filter(c.deps.Index.All(), query, category, favs, scope), nil
}

// Session returns the active session, ok false when logged out.
func (c *Controller) Session(ctx context.Context) (domain.Session, bool, error) {
	return c.deps.Accounts.Current(ctx)
}

// Navigate switches screens. Favorites require a session and send a
// logged-out user to login instead. The landing screen resets the category.
func (c *Controller) Navigate(ctx context.Context, v View) error {
	if v == ViewFavorites {
		_, ok, err := c.deps.Accounts.Current(ctx)
		if err != nil {
			return err
		}
		if !ok {
			v = ViewLogin
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = v
	if v == ViewLanding {
		c.category = domain.CategoryAll
	}
	return nil
}

// SetQuery changes the free-text search.
func (c *Controller) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = q
}

// SelectCategory changes the category filter; "All" clears it.
func (c *Controller) SelectCategory(name string) error {
	cat, ok := domain.ParseCategory(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.category = cat
	return nil
}

// Apply validates every field of u before changing anything.
func (c *Controller) Apply(ctx context.Context, u Update) error {
	var view View
	if u.View != nil {
		v, ok := ParseView(*u.View)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownView, *u.View)
		}
		view = v
	}
	if u.Category != nil {
		if _, ok := domain.ParseCategory(*u.Category); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownCategory, *u.Category)
		}
	}

	if u.Query != nil {
		c.SetQuery(*u.Query)
	}
	if u.Category != nil {
		_ = c.SelectCategory(*u.Category)
	}
	if u.View != nil {
		return c.Navigate(ctx, view)
	}
	return nil
}

// Signup registers and logs in, then shows the dashboard.
func (c *Controller) Signup(ctx context.Context, username, email, password string) (domain.Session, error) {
	sess, err := c.deps.Accounts.Signup(ctx, username, email, password)
	if err != nil {
		return domain.Session{}, err
	}
	c.setView(ViewDashboard)
	return sess, nil
}

// Login opens a session, then shows the dashboard.
func (c *Controller) Login(ctx context.Context, email, password string) (domain.Session, error) {
	sess, err := c.deps.Accounts.Login(ctx, email, password)
	if err != nil {
		return domain.Session{}, err
	}
	c.setView(ViewDashboard)
	return sess, nil
}

// Logout ends the session and returns to the landing screen.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.deps.Accounts.Logout(ctx); err != nil {
		return err
	}
	c.setView(ViewLanding)
	return nil
}

// ToggleFavorite flips apiID in the session user's favorites and returns
// the new membership with the updated ids. A logged-out user is sent to the
// login screen and gets domain.ErrNotLoggedIn.
func (c *Controller) ToggleFavorite(ctx context.Context, apiID string) (bool, []string, error) {
	sess, ok, err := c.deps.Accounts.Current(ctx)
	if err != nil {
		return false, nil, err
	}
	if !ok {
		c.setView(ViewLogin)
		return false, nil, domain.ErrNotLoggedIn
	}

	favorited, err := c.deps.Favorites.Toggle(ctx, sess.User.ID, apiID)
	if err != nil {
		return false, nil, err
	}
	c.deps.Metrics.FavoriteToggle(favorited)

	sess, _, err = c.deps.Accounts.Current(ctx)
	if err != nil {
		return false, nil, err
	}
	return favorited, sess.FavoriteIDs, nil
}

func (c *Controller) setView(v View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = v
}
