package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AnonCookieName holds the stable guest identifier.
const AnonCookieName = "snoowords_anon"

type ctxUserKey struct{}

// Identity is the signed-in player placed in the request context.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Service bundles accounts, tokens and cookie settings.
type Service struct {
	Users      *Users
	Tokens     *Tokens
	CookieName string
	Secure     bool
}

// UserFrom returns the signed-in player, or nil for guests.
func UserFrom(ctx context.Context) *Identity {
	id, _ := ctx.Value(ctxUserKey{}).(*Identity)
	return id
}

// WithUser returns ctx carrying id.
func WithUser(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, id)
}

// identify resolves the request token to a still-existing user.
func (s *Service) identify(r *http.Request) (*Identity, bool) {
	tok := s.bearerOrCookie(r)
	if tok == "" {
		return nil, false
	}
	c, err := s.Tokens.Parse(tok)
	if err != nil {
		return nil, false
	}
	if _, err := s.Users.FindByID(r.Context(), c.UserID); err != nil {
		return nil, false
	}
	return &Identity{ID: c.UserID, Username: c.Username}, true
}

// OptionalAuth decorates requests with the user when a valid token is
// present. It never rejects.
func (s *Service) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := s.identify(r); ok {
			r = r.WithContext(WithUser(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects requests without a valid token.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.identify(r)
		if !ok {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), id)))
	})
}

// Issue signs a token for u and sets the auth cookie.
func (s *Service) Issue(w http.ResponseWriter, u *User) (string, error) {
	tok, exp, err := s.Tokens.Sign(u.ID, u.Username)
	if err != nil {
		return "", err
	}
	s.setCookie(w, s.CookieName, tok, exp, 0)
	return tok, nil
}

// ClearCookie deletes the auth cookie.
func (s *Service) ClearCookie(w http.ResponseWriter) {
	s.setCookie(w, s.CookieName, "", time.Time{}, -1)
}

// PlayerID returns the signed-in user's id or the guest id, setting the
// guest cookie when missing.
func (s *Service) PlayerID(w http.ResponseWriter, r *http.Request) string {
	if me := UserFrom(r.Context()); me != nil {
		return me.ID
	}
	return s.EnsureAnonID(w, r)
}

// Owns reports whether the caller is owner, as the signed-in user or through
// the guest cookie. An empty owner belongs to everyone.
func (s *Service) Owns(r *http.Request, owner string) bool {
	if owner == "" {
		return true
	}
	if me := UserFrom(r.Context()); me != nil && me.ID == owner {
		return true
	}
	c, err := r.Cookie(AnonCookieName)
	return err == nil && c.Value == owner
}

// EnsureAnonID returns the guest id cookie or sets a new one.
func (s *Service) EnsureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(AnonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	s.setCookie(w, AnonCookieName, id, time.Now().Add(180*24*time.Hour), 0)
	return id
}

func (s *Service) setCookie(w http.ResponseWriter, name, value string, exp time.Time, maxAge int) {
	sameSite := http.SameSiteLaxMode
	if s.Secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: sameSite,
		Expires:  exp,
		MaxAge:   maxAge,
	})
}

// bearerOrCookie extracts a token from the Authorization header or the auth cookie.
func (s *Service) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.CookieName); err == nil {
		return c.Value
	}
	return ""
}
