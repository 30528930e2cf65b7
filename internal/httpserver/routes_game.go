package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/snoowords/go-server/internal/auth"
	"github.com/snoowords/go-server/internal/game"
	"github.com/snoowords/go-server/internal/store"
	"github.com/snoowords/go-server/internal/theme"
)

func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewRound)
		r.Post("/submit", s.handleSubmit)
		r.Post("/reset", s.handleReset)
		r.Post("/finish", s.handleFinish)
		r.Get("/{id}", s.handleGetRound)
	})
}

type newRoundReq struct {
	Mode    string `json:"mode"`    // "classic" | "battle"
	Theme   string `json:"theme"`   // optional catalogue theme
	Count   int    `json:"count"`   // letters; 0 = server default
	Seconds int    `json:"seconds"` // 0 = server default, negative = untimed
}

func (s *Server) handleNewRound(w http.ResponseWriter, r *http.Request) {
	var req newRoundReq
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	if req.Count < 0 || req.Count > maxLetters {
		fail(w, http.StatusBadRequest, "bad_count")
		return
	}
	owner := s.Auth.PlayerID(w, r)
	opts := game.Options{
		Mode:  game.ParseMode(req.Mode),
		Theme: strings.ToLower(strings.TrimSpace(req.Theme)),
		Count: req.Count,
		Owner: owner,
	}
	if opts.Theme != "" && theme.Words(opts.Theme) == nil {
		fail(w, http.StatusBadRequest, "unknown_theme")
		return
	}
	switch {
	case req.Seconds < 0:
		opts.Duration = -1
	case req.Seconds > 0:
		opts.Duration = time.Duration(req.Seconds) * time.Second
	}

	rd := s.Engine.NewRound(opts)
	if err := s.Store.Save(r.Context(), rd); err != nil {
		log.Error().Err(err).Msg("save round")
		fail(w, http.StatusInternalServerError, "save_failed")
		return
	}
	snap := rd.Snapshot()
	s.recordStart(r.Context(), snap, owner, auth.UserFrom(r.Context()) != nil)
	writeJSON(w, snap)
}

type roundReq struct {
	GameID string `json:"gameId"`
}

type submitReq struct {
	GameID string `json:"gameId"`
	Word   string `json:"word"`
}

type submitRes struct {
	Accepted game.ScoredWord `json:"accepted"`
	Score    int             `json:"score"`
	Words    int             `json:"words"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitReq
	if !decode(w, r, &req) {
		return
	}
	rd, ok := s.ownedRound(w, r, req.GameID)
	if !ok {
		return
	}
	sw, err := rd.Submit(r.Context(), req.Word)
	if err != nil {
		failErr(w, err)
		return
	}
	snap := rd.Snapshot()
	writeJSON(w, submitRes{Accepted: sw, Score: snap.Score, Words: len(snap.Words)})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req roundReq
	if !decode(w, r, &req) {
		return
	}
	rd, ok := s.ownedRound(w, r, req.GameID)
	if !ok {
		return
	}
	if s.dd.isDaily(req.GameID) {
		fail(w, http.StatusConflict, "daily_no_reset")
		return
	}
	snap := rd.Reset()
	s.recordReset(r.Context(), snap)
	writeJSON(w, snap)
}

func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request) {
	var req roundReq
	if !decode(w, r, &req) {
		return
	}
	rd, ok := s.ownedRound(w, r, req.GameID)
	if !ok {
		return
	}
	snap := rd.Finish()
	s.recordFinish(r.Context(), snap)
	writeJSON(w, snap)
}

func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	rd, ok := s.ownedRound(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	writeJSON(w, rd.Snapshot())
}

// ownedRound loads a round the caller may play. Other players' rounds
// answer not_found.
func (s *Server) ownedRound(w http.ResponseWriter, r *http.Request, id string) (*game.Round, bool) {
	rd, err := s.Store.Get(r.Context(), id)
	if err == nil && !s.Auth.Owns(r, rd.Owner()) {
		err = store.ErrNotFound
	}
	if err != nil {
		failErr(w, err)
		return nil, false
	}
	return rd, true
}
