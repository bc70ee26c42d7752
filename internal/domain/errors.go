package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateEmail is returned by signup when the email is already registered.
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrInvalidCredentials is returned by login when no record matches email and password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAlreadyLoggedIn is returned by signup/login while a session is active.
	ErrAlreadyLoggedIn = errors.New("a session is already active")
	// ErrNotLoggedIn is returned by operations that need a session.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrDiscoveryUnavailable is returned when no provider client is configured.
	ErrDiscoveryUnavailable = errors.New("discovery provider not configured")
)

// DiscoveryError reports a failed discover call: transport failure,
// non-JSON output or a schema violation. The whole call fails.
type DiscoveryError struct {
	Category string
	Op       string // "generate" | "decode" | "validate"
	Err      error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discovery for %q failed at %s: %v", e.Category, e.Op, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }
