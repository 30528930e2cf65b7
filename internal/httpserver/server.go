// internal/httpserver/server.go
//
// HTTP server wiring for the SnooWords backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/debug/lexicon".
//   - Stateless word tools: /letters, /words/*, /themes.
//   - Round endpoints (optional auth): /game/*.
//   - Daily challenge endpoints (optional auth): mounted under /daily.
//   - Account endpoints: /auth/*, /rounds/mine.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Guests are identified by an anonymous cookie; signing in claims their rounds.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/snoowords/go-server/internal/auth"
	"github.com/snoowords/go-server/internal/daily"
	"github.com/snoowords/go-server/internal/game"
	"github.com/snoowords/go-server/internal/lexicon"
	"github.com/snoowords/go-server/internal/store"
	"github.com/snoowords/go-server/internal/words"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Engine       *game.Engine
	Lexicon      *lexicon.Lexicon
	Store        store.Store
	DB           *sql.DB
	Daily        *daily.Store
	Auth         *auth.Service
	ClientOrigin string
	Admins       []string // usernames allowed to pin daily themes
	Now          func() time.Time
}

// Server bundles the router and its dependencies.
type Server struct {
	r *chi.Mux
	Deps
	dd *dailyServer
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.ClientOrigin == "" {
		d.ClientOrigin = "http://localhost:5173"
	}
	s := &Server{r: chi.NewRouter(), Deps: d}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(accessLog)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(cors(d.ClientOrigin))

	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"service":   "snoowords-go",
			"endpoints": []string{"/health", "POST /letters", "POST /words/validate", "POST /game/new", "POST /game/submit", "/daily", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]bool{"ok": true})
	})
	s.r.Get("/debug/lexicon", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]int{"entries": s.Lexicon.Size()})
	})

	s.mountWords(s.r)
	s.r.Group(func(r chi.Router) {
		r.Use(s.Auth.OptionalAuth)
		s.mountGame(r)
		s.mountDaily(r)
	})
	s.mountAuth(s.r)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		fail(w, http.StatusNotFound, "not_found")
	})
	return s
}

// Router exposes the router (http.Server handler and tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes one zerolog line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		ev := log.Info()
		if status >= 500 {
			ev = log.Error()
		}
		ev.Str("request_id", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("url", r.URL.RequestURI()).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// ------------------------------ helpers ------------------------------------

func writeJSON(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}

func fail(w http.ResponseWriter, status int, code string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		fail(w, http.StatusBadRequest, "bad_json")
		return false
	}
	return true
}

// failErr maps domain errors to status codes and error codes.
func failErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, words.ErrTooShort):
		fail(w, http.StatusBadRequest, "too_short")
	case errors.Is(err, words.ErrNotAWord):
		fail(w, http.StatusBadRequest, "not_a_word")
	case errors.Is(err, words.ErrNotConstructible):
		fail(w, http.StatusBadRequest, "letters_unavailable")
	case errors.Is(err, game.ErrAlreadyFound):
		fail(w, http.StatusConflict, "already_found")
	case errors.Is(err, game.ErrRoundOver):
		fail(w, http.StatusConflict, "round_over")
	case errors.Is(err, store.ErrNotFound):
		fail(w, http.StatusNotFound, "not_found")
	default:
		log.Error().Err(err).Msg("request failed")
		fail(w, http.StatusInternalServerError, "server_error")
	}
}

func reasonOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, words.ErrTooShort):
		return "too_short"
	case errors.Is(err, words.ErrNotConstructible):
		return "letters_unavailable"
	default:
		return "not_a_word"
	}
}
