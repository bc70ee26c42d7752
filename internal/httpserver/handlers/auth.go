package handlers

import (
	"net/http"
	"strings"

	"github.com/sohamroyc/Api-directory/internal/domain"
	"github.com/sohamroyc/Api-directory/internal/httpserver/deps"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User        domain.UserAccount `json:"user"`
	Token       string             `json:"token"`
	FavoriteIDs []string           `json:"favorite_ids"`
}

func newSessionResponse(s domain.Session) sessionResponse {
	ids := s.FavoriteIDs
	if ids == nil {
		ids = []string{}
	}
	return sessionResponse{User: s.User, Token: s.Token, FavoriteIDs: ids}
}

// Signup registers an account and opens its session.
func Signup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "username, email and password are required")
			return
		}

		sess, err := d.Controller.Signup(r.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			fail(w, d.Logger, "signup", err)
			return
		}
		writeJSON(w, http.StatusCreated, newSessionResponse(sess))
	}
}

// Login opens a session for matching credentials.
func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(req.Email) == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		sess, err := d.Controller.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			fail(w, d.Logger, "login", err)
			return
		}
		writeJSON(w, http.StatusOK, newSessionResponse(sess))
	}
}

// Logout always succeeds, logged in or not.
func Logout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Controller.Logout(r.Context()); err != nil {
			fail(w, d.Logger, "logout", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Session returns the active session or 401.
func Session(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok, err := d.Controller.Session(r.Context())
		if err != nil {
			fail(w, d.Logger, "session", err)
			return
		}
		if !ok {
			fail(w, d.Logger, "session", domain.ErrNotLoggedIn)
			return
		}
		writeJSON(w, http.StatusOK, newSessionResponse(sess))
	}
}
