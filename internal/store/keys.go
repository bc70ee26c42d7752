package store

const (
	// KeyPrefix namespaces every persisted key.
	KeyPrefix = "apidir:"

	// KeyListings holds the discovered catalog ([]domain.ApiListing).
	KeyListings = KeyPrefix + "discovered_apis"
	// KeySources holds the latest discovery citations ([]domain.DiscoverySource).
	KeySources = KeyPrefix + "discovery_sources"
	// KeyUsers holds the user records including passwords ([]domain.StoredUser).
	KeyUsers = KeyPrefix + "platform_users"
	// KeyFavorites holds every user's favorite links ([]domain.FavoriteLink).
	KeyFavorites = KeyPrefix + "platform_favorites"
	// KeyCurrentUser holds the session user without password (domain.UserAccount).
	KeyCurrentUser = KeyPrefix + "current_user"
	// KeyAuthToken holds the opaque session token (string).
	KeyAuthToken = KeyPrefix + "auth_token"
)

// AllKeys returns every key the application writes.
func AllKeys() []string {
	return []string{KeyListings, KeySources, KeyUsers, KeyFavorites, KeyCurrentUser, KeyAuthToken}
}
