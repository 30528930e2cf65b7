// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily challenge.
// Exposes five endpoints under /daily:
//   - GET  /daily             → today's theme, bonus words and whether the player already played
//   - POST /daily/new         → start (or resume) today's themed round
//   - POST /daily/finish      → end the round and record the score once per player and day
//   - GET  /daily/leaderboard → top results for today (or ?date=YYYY-MM-DD)
//   - POST /daily/theme       → admins pin the theme of a day
//
// Rounds in progress are held in the round store; sessions map a player and
// date to their round so a reload resumes instead of starting over. A round
// keeps the date it was started on, also when it is finished after midnight.

package httpserver

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/snoowords/go-server/internal/auth"
	"github.com/snoowords/go-server/internal/daily"
	"github.com/snoowords/go-server/internal/game"
	"github.com/snoowords/go-server/internal/theme"
	"github.com/snoowords/go-server/internal/words"
)

type dailySession struct {
	player string
	date   string
}

func (s dailySession) key() string { return s.player + "|" + s.date }

type dailyServer struct {
	srv      *Server
	mu       sync.Mutex
	sessions map[string]string       // player|date → round id
	rounds   map[string]dailySession // round id → session
}

func (s *Server) mountDaily(r chi.Router) {
	s.dd = &dailyServer{
		srv:      s,
		sessions: make(map[string]string),
		rounds:   make(map[string]dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", s.dd.handleToday)
		r.Post("/new", s.dd.handleNew)
		r.Post("/finish", s.dd.handleFinish)
		r.Get("/leaderboard", s.dd.handleLeaderboard)
		r.With(s.Auth.RequireAuth).Post("/theme", s.dd.handleSetTheme)
	})
}

func (d *dailyServer) today() string { return daily.DateKey(d.srv.Now()) }

func (d *dailyServer) isDaily(roundID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.rounds[roundID]
	return ok
}

func (d *dailyServer) forget(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if sess, ok := d.rounds[id]; ok {
		delete(d.sessions, sess.key())
		delete(d.rounds, id)
	}
}

// SweepDaily drops daily sessions whose round left the store or that were
// started before yesterday, and returns how many went.
func (s *Server) SweepDaily(ctx context.Context) int {
	d := s.dd
	yesterday := daily.DateKey(s.Now().AddDate(0, 0, -1))

	d.mu.Lock()
	var stale []string
	for id, sess := range d.rounds {
		if sess.date < yesterday || !s.Store.Has(ctx, id) {
			stale = append(stale, id)
		}
	}
	for _, id := range stale {
		delete(d.sessions, d.rounds[id].key())
		delete(d.rounds, id)
	}
	d.mu.Unlock()

	for _, id := range stale {
		_ = s.Store.Delete(ctx, id)
	}
	return len(stale)
}

type todayRes struct {
	daily.Theme
	Played bool `json:"played"`
}

func (d *dailyServer) handleToday(w http.ResponseWriter, r *http.Request) {
	date := d.today()
	th, err := d.srv.Daily.Theme(r.Context(), date)
	if err != nil {
		log.Error().Err(err).Msg("daily theme")
		fail(w, http.StatusInternalServerError, "server_error")
		return
	}
	played, err := d.srv.Daily.AlreadyPlayed(r.Context(), d.srv.Auth.PlayerID(w, r), date)
	if err != nil {
		log.Warn().Err(err).Msg("daily already played")
	}
	writeJSON(w, todayRes{Theme: th, Played: played})
}

type dailyNewRes struct {
	GameID string         `json:"gameId,omitempty"`
	Date   string         `json:"date"`
	Played bool           `json:"played"`
	Round  *game.Snapshot `json:"round,omitempty"`
}

// handleNew resumes the player's round for today or starts a themed one.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.srv.Auth.PlayerID(w, r)
	date := d.today()

	if played, err := d.srv.Daily.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
		writeJSON(w, dailyNewRes{Date: date, Played: true})
		return
	}

	sess := dailySession{player: uid, date: date}
	d.mu.Lock()
	id, ok := d.sessions[sess.key()]
	d.mu.Unlock()
	if ok {
		if rd, err := d.srv.Store.Get(r.Context(), id); err == nil {
			snap := rd.Snapshot()
			writeJSON(w, dailyNewRes{GameID: id, Date: date, Round: &snap})
			return
		}
		d.forget(id)
	}

	th, err := d.srv.Daily.Theme(r.Context(), date)
	if err != nil {
		log.Error().Err(err).Msg("daily theme")
		fail(w, http.StatusInternalServerError, "server_error")
		return
	}
	rd := d.srv.Engine.NewRound(game.Options{
		Mode:       game.ModeClassic,
		Theme:      th.Name,
		BonusWords: th.BonusWords,
		Owner:      uid,
	})
	if err := d.srv.Store.Save(r.Context(), rd); err != nil {
		log.Error().Err(err).Msg("save daily round")
		fail(w, http.StatusInternalServerError, "save_failed")
		return
	}
	d.mu.Lock()
	d.sessions[sess.key()] = rd.ID()
	d.rounds[rd.ID()] = sess
	d.mu.Unlock()

	snap := rd.Snapshot()
	d.srv.recordStart(r.Context(), snap, uid, auth.UserFrom(r.Context()) != nil)
	writeJSON(w, dailyNewRes{GameID: rd.ID(), Date: date, Round: &snap})
}

type dailyFinishReq struct {
	GameID string `json:"gameId"`
}

type dailyFinishRes struct {
	Date     string `json:"date"`
	Score    int    `json:"score"`
	Words    int    `json:"words"`
	Recorded bool   `json:"recorded"`
}

// handleFinish ends the caller's daily round and records the result once,
// under the date the round was started on.
func (d *dailyServer) handleFinish(w http.ResponseWriter, r *http.Request) {
	var req dailyFinishReq
	if !decode(w, r, &req) {
		return
	}
	d.mu.Lock()
	sess, ok := d.rounds[req.GameID]
	d.mu.Unlock()
	if !ok || !d.srv.Auth.Owns(r, sess.player) {
		fail(w, http.StatusConflict, "no_session")
		return
	}
	rd, err := d.srv.Store.Get(r.Context(), req.GameID)
	if err != nil {
		d.forget(req.GameID)
		failErr(w, err)
		return
	}
	snap := rd.Finish()
	d.srv.recordFinish(r.Context(), snap)

	elapsed := d.srv.Now().Sub(snap.StartedAt)
	if snap.EndsAt != nil {
		elapsed = min(elapsed, snap.EndsAt.Sub(snap.StartedAt))
	}
	recorded, err := d.srv.Daily.InsertResult(r.Context(), daily.Result{
		PlayerID:  sess.player,
		Date:      sess.date,
		Score:     snap.Score,
		Words:     len(snap.Words),
		ElapsedMs: int(max(elapsed, 0) / time.Millisecond),
	})
	if err != nil {
		log.Error().Err(err).Str("player", sess.player).Msg("insert daily result")
		fail(w, http.StatusInternalServerError, "server_error")
		return
	}

	d.forget(req.GameID)
	_ = d.srv.Store.Delete(r.Context(), req.GameID)

	writeJSON(w, dailyFinishRes{Date: sess.date, Score: snap.Score, Words: len(snap.Words), Recorded: recorded})
}

type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = d.today()
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		fail(w, http.StatusBadRequest, "bad_date")
		return
	}
	rows, err := d.srv.Daily.Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Msg("daily leaderboard")
		fail(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, lbRes{Date: date, Top: rows})
}

type setThemeReq struct {
	Date       string   `json:"date"`  // YYYY-MM-DD; empty means today
	Theme      string   `json:"theme"` // catalogue name, or a custom name with bonusWords
	BonusWords []string `json:"bonusWords"`
}

func (d *dailyServer) isAdmin(me *auth.Identity) bool {
	for _, name := range d.srv.Admins {
		if strings.EqualFold(strings.TrimSpace(name), me.Username) {
			return true
		}
	}
	return false
}

// handleSetTheme pins the theme and bonus words of a day.
func (d *dailyServer) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	if !d.isAdmin(auth.UserFrom(r.Context())) {
		fail(w, http.StatusForbidden, "forbidden")
		return
	}
	var req setThemeReq
	if !decode(w, r, &req) {
		return
	}
	date := req.Date
	if date == "" {
		date = d.today()
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		fail(w, http.StatusBadRequest, "bad_date")
		return
	}
	name := strings.ToLower(strings.TrimSpace(req.Theme))
	bonus := make([]string, 0, len(req.BonusWords))
	for _, bw := range req.BonusWords {
		if n := words.Normalize(bw); n != "" {
			bonus = append(bonus, n)
		}
	}
	if len(bonus) == 0 {
		bonus = theme.Words(name)
	}
	if name == "" || len(bonus) == 0 {
		fail(w, http.StatusBadRequest, "unknown_theme")
		return
	}
	if err := d.srv.Daily.SetTheme(r.Context(), daily.Theme{Date: date, Name: name, BonusWords: bonus}); err != nil {
		log.Error().Err(err).Str("date", date).Msg("set daily theme")
		fail(w, http.StatusInternalServerError, "server_error")
		return
	}
	th, err := d.srv.Daily.Theme(r.Context(), date)
	if err != nil {
		log.Error().Err(err).Msg("daily theme")
		fail(w, http.StatusInternalServerError, "server_error")
		return
	}
	log.Info().Str("date", date).Str("theme", th.Name).Msg("daily theme set")
	writeJSON(w, th)
}
