package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/snoowords/go-server/internal/auth"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authRes struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// mountAuth registers account routes and the gated profile routes.
func (s *Server) mountAuth(r chi.Router) {
	r.Post("/auth/signup", s.handleSignup)
	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.Auth.RequireAuth)
		r.Get("/auth/me", s.handleMe)
		r.Get("/rounds/mine", s.handleMyRounds)
	})
}

// handleSignup creates a user, signs a token, and claims the guest's rounds.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if !decode(w, r, &body) {
		return
	}
	u, err := s.Auth.Users.Create(r.Context(), body.Username, body.Password)
	switch {
	case errors.Is(err, auth.ErrUsernameTaken):
		fail(w, http.StatusConflict, "username_taken")
		return
	case errors.Is(err, auth.ErrInvalidUsername):
		fail(w, http.StatusBadRequest, "invalid_username")
		return
	case errors.Is(err, auth.ErrInvalidPassword):
		fail(w, http.StatusBadRequest, "invalid_password")
		return
	case err != nil:
		log.Error().Err(err).Msg("signup")
		fail(w, http.StatusInternalServerError, "server_error")
		return
	}
	s.signIn(w, r, u)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if !decode(w, r, &body) {
		return
	}
	u, err := s.Auth.Users.Authenticate(r.Context(), body.Username, body.Password)
	if err != nil {
		fail(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	s.signIn(w, r, u)
}

func (s *Server) signIn(w http.ResponseWriter, r *http.Request, u *auth.User) {
	tok, err := s.Auth.Issue(w, u)
	if err != nil {
		log.Error().Err(err).Msg("sign token")
		fail(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	if c, err := r.Cookie(auth.AnonCookieName); err == nil {
		s.claimAnonRounds(r.Context(), c.Value, u.ID)
	}
	writeJSON(w, authRes{ID: u.ID, Username: u.Username, Token: tok})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.Auth.ClearCookie(w)
	writeJSON(w, map[string]bool{"ok": true})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	me := auth.UserFrom(r.Context())
	u, err := s.Auth.Users.FindByID(r.Context(), me.ID)
	if err != nil {
		fail(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, u)
}

func (s *Server) handleMyRounds(w http.ResponseWriter, r *http.Request) {
	me := auth.UserFrom(r.Context())
	rows, err := s.recentRounds(r.Context(), me.ID, 50)
	if err != nil {
		log.Error().Err(err).Msg("recent rounds")
		fail(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, rows)
}
