package controller

import (
	"time"

	"github.com/sohamroyc/Api-directory/internal/catalog"
	"github.com/sohamroyc/Api-directory/internal/domain"
)

// View is one of the screens of the directory.
type View string

const (
	ViewLanding   View = "landing"
	ViewLogin     View = "login"
	ViewSignup    View = "signup"
	ViewDashboard View = "dashboard"
	ViewFavorites View = "favorites"
)

var views = []View{ViewLanding, ViewLogin, ViewSignup, ViewDashboard, ViewFavorites}

// ParseView returns the view named s.
func ParseView(s string) (View, bool) {
	for _, v := range views {
		if string(v) == s {
			return v, true
		}
	}
	return "", false
}

// ViewModel is everything a client needs to render the current screen.
type ViewModel struct {
	View          View                     `json:"view"`
	Query         string                   `json:"query"`
	Category      domain.Category          `json:"category"`
	Scope         catalog.Scope            `json:"scope"`
	Loading       bool                     `json:"loading"`
	User          *domain.UserAccount      `json:"user"`
	FavoriteIDs   []string                 `json:"favorite_ids"`
	Listings      []domain.ApiListing      `json:"listings"`
	Sources       []domain.DiscoverySource `json:"sources"`
	Total         int                      `json:"total"`
	LastDiscovery *time.Time               `json:"last_discovery,omitempty"`
}

// Update carries the optional fields of a view change. Nil fields are left as is.
type Update struct {
	View     *string `json:"view"`
	Query    *string `json:"query"`
	Category *string `json:"category"`
}
