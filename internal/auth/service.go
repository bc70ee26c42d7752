// Package auth implements the simulated account model: signup, login and
// logout against the user records of the Persisted Store, with one
// process-wide session slot.
//
// Passwords are stored and compared as given and the session token is
// derived from the user id. Neither is a real credential.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sohamroyc/Api-directory/internal/domain"
	"github.com/sohamroyc/Api-directory/internal/logger"
	"github.com/sohamroyc/Api-directory/internal/metrics"
	"github.com/sohamroyc/Api-directory/internal/store"
)

// TokenPrefix is prepended to the user id to form the session token.
const TokenPrefix = "simulated_jwt_token_"

// FavoriteLister loads the favorite ids of a user.
type FavoriteLister interface {
	IDs(ctx context.Context, userID string) ([]string, error)
}

// Service is the session state machine: LoggedOut -> signup/login -> LoggedIn -> logout -> LoggedOut.
type Service struct {
	mu        sync.Mutex
	state     *store.State
	favorites FavoriteLister
	log       logger.Logger
	metrics   *metrics.Metrics

	current *domain.Session

	now   func() time.Time
	newID func() string
}

// New creates a logged-out Service over the persisted state.
func New(state *store.State, favorites FavoriteLister, log logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		state:     state,
		favorites: favorites,
		log:       log,
		metrics:   m,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Token returns the session token of a user id.
func Token(userID string) string {
	return TokenPrefix + userID
}

// Restore reconstitutes the session from the store. Both the current user
// and the token must be present, otherwise the service stays logged out.
func (s *Service) Restore(ctx context.Context) (domain.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, token, ok, err := s.state.Session(ctx)
	if err != nil {
		return domain.Session{}, false, fmt.Errorf("failed to load session: %w", err)
	}
	if !ok {
		s.current = nil
		return domain.Session{}, false, nil
	}

	ids, err := s.favorites.IDs(ctx, user.ID)
	if err != nil {
		return domain.Session{}, false, err
	}

	s.current = &domain.Session{User: user, Token: token, FavoriteIDs: ids}
	s.log.Info("session restored", logger.String("user_id", user.ID))
	return *s.current, true, nil
}

// Signup registers a new account and logs it in.
// The email must not match any stored record exactly.
func (s *Service) Signup(ctx context.Context, username, email, password string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.signup(ctx, username, email, password)
	s.record("signup", err)
	return sess, err
}

func (s *Service) signup(ctx context.Context, username, email, password string) (domain.Session, error) {
	users, err := s.state.Users(ctx)
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to load users: %w", err)
	}
	for _, u := range users {
		if u.Email == email {
			return domain.Session{}, domain.ErrDuplicateEmail
		}
	}
	if s.current != nil {
		return domain.Session{}, domain.ErrAlreadyLoggedIn
	}

	record := domain.StoredUser{
		UserAccount: domain.UserAccount{
			ID:        s.newID(),
			Username:  username,
			Email:     email,
			CreatedAt: s.now(),
		},
		Password: password,
	}
	if err := s.state.SaveUsers(ctx, append(users, record)); err != nil {
		return domain.Session{}, fmt.Errorf("failed to save users: %w", err)
	}

	return s.establish(ctx, record.Public(), []string{})
}

// Login opens a session for the record matching both email and password.
func (s *Service) Login(ctx context.Context, email, password string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.login(ctx, email, password)
	s.record("login", err)
	return sess, err
}

func (s *Service) login(ctx context.Context, email, password string) (domain.Session, error) {
	users, err := s.state.Users(ctx)
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to load users: %w", err)
	}

	var match *domain.StoredUser
	for i := range users {
		if users[i].Email == email && users[i].Password == password {
			match = &users[i]
			break
		}
	}
	if match == nil {
		return domain.Session{}, domain.ErrInvalidCredentials
	}
	if s.current != nil {
		return domain.Session{}, domain.ErrAlreadyLoggedIn
	}

	ids, err := s.favorites.IDs(ctx, match.ID)
	if err != nil {
		return domain.Session{}, err
	}
	return s.establish(ctx, match.Public(), ids)
}

// Logout clears the session slot and its persisted entries. Calling it
// while logged out only clears the store.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	err := s.state.ClearSession(ctx)
	s.record("logout", err)
	return err
}

// Current returns the active session with favorite ids read fresh from the store.
func (s *Service) Current(ctx context.Context) (domain.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return domain.Session{}, false, nil
	}
	ids, err := s.favorites.IDs(ctx, s.current.User.ID)
	if err != nil {
		return domain.Session{}, false, err
	}
	s.current.FavoriteIDs = ids
	return *s.current, true, nil
}

// establish must be called with mu held.
func (s *Service) establish(ctx context.Context, user domain.UserAccount, favoriteIDs []string) (domain.Session, error) {
	token := Token(user.ID)
	if err := s.state.SaveSession(ctx, user, token); err != nil {
		return domain.Session{}, fmt.Errorf("failed to save session: %w", err)
	}
	s.current = &domain.Session{User: user, Token: token, FavoriteIDs: favoriteIDs}
	return *s.current, nil
}

func (s *Service) record(op string, err error) {
	switch {
	case err == nil:
		s.metrics.Auth(op, metrics.ResultOK)
		s.log.Info("auth event", logger.String("op", op))
	case errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrAlreadyLoggedIn):
		s.metrics.Auth(op, "rejected")
		s.log.Info("auth rejected", logger.String("op", op), logger.Error(err))
	default:
		s.metrics.Auth(op, metrics.ResultError)
		s.log.Error("auth failed", logger.String("op", op), logger.Error(err))
	}
}
