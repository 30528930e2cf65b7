package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/snoowords/go-server/internal/scoring"
	"github.com/snoowords/go-server/internal/theme"
	"github.com/snoowords/go-server/internal/words"
)

const maxLetters = 32

func (s *Server) mountWords(r chi.Router) {
	r.Post("/letters", s.handleLetters)
	r.Post("/words/validate", s.handleValidate)
	r.Post("/words/score", s.handleScore)
	r.Get("/themes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string][]string{"themes": theme.Names()})
	})
	r.Post("/themes/check", s.handleThemeCheck)
}

type lettersReq struct {
	Count int `json:"count"`
}

func (s *Server) handleLetters(w http.ResponseWriter, r *http.Request) {
	var req lettersReq
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	if req.Count < 0 || req.Count > maxLetters {
		fail(w, http.StatusBadRequest, "bad_count")
		return
	}
	writeJSON(w, map[string][]string{"letters": s.Engine.Letters(req.Count)})
}

type validateReq struct {
	Word    string   `json:"word"`
	Letters []string `json:"letters"`
}

type validateRes struct {
	Word   string `json:"word"`
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateReq
	if !decode(w, r, &req) {
		return
	}
	err := s.Engine.Validate(r.Context(), req.Word, req.Letters)
	writeJSON(w, validateRes{Word: words.Normalize(req.Word), Valid: err == nil, Reason: reasonOf(err)})
}

type scoreReq struct {
	Word   string `json:"word"`
	Policy string `json:"policy"`
}

type scoreRes struct {
	Word   string `json:"word"`
	Policy string `json:"policy"`
	Points int    `json:"points"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreReq
	if !decode(w, r, &req) {
		return
	}
	p := scoring.ByName(req.Policy)
	wd := words.Normalize(req.Word)
	writeJSON(w, scoreRes{Word: wd, Policy: p.Name(), Points: p.Score(wd)})
}

type themeCheckReq struct {
	Word  string `json:"word"`
	Theme string `json:"theme"`
}

func (s *Server) handleThemeCheck(w http.ResponseWriter, r *http.Request) {
	var req themeCheckReq
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, map[string]bool{"themed": theme.IsThemeRelated(words.Normalize(req.Word), req.Theme)})
}
