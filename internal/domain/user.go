package domain

import "time"

// UserAccount is the public view of a registered user.
// It never carries the password.
type UserAccount struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// StoredUser is the persisted user record.
//
// The password is kept as given. This mirrors a simulated, browser-only
// account model and is not suitable for production use.
type StoredUser struct {
	UserAccount
	Password string `json:"password"`
}

// Public strips the password from the record.
func (u StoredUser) Public() UserAccount {
	return u.UserAccount
}

// FavoriteLink joins a user to a listing. (UserID, ApiID) is unique.
// A link may reference a listing that no longer exists in the catalog.
type FavoriteLink struct {
	UserID    string    `json:"user_id"`
	ApiID     string    `json:"api_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the single process-wide authenticated slot.
type Session struct {
	User        UserAccount `json:"user"`
	Token       string      `json:"token"`
	FavoriteIDs []string    `json:"favorite_ids"`
}
