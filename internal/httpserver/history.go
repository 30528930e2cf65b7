package httpserver

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/snoowords/go-server/internal/game"
)

// Round history lives in the rounds table. Writes are best effort: a failed
// write is logged and never fails the request.

// recordStart inserts the owner row for a new round.
func (s *Server) recordStart(ctx context.Context, snap game.Snapshot, owner string, signedIn bool) {
	ownerCol := "anonymous_id"
	if signedIn {
		ownerCol = "user_id"
	}
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO rounds (id, `+ownerCol+`, mode, theme, letters, started_at) VALUES (?,?,?,?,?,?)`,
		snap.ID, owner, string(snap.Mode), snap.Theme, strings.Join(snap.Letters, ""),
		snap.StartedAt.UTC().Format(time.RFC3339))
	if err != nil {
		log.Warn().Err(err).Str("roundId", snap.ID).Msg("insert round row")
	}
}

// recordReset stores the new letters and start time.
func (s *Server) recordReset(ctx context.Context, snap game.Snapshot) {
	_, err := s.DB.ExecContext(ctx,
		`UPDATE rounds SET letters=?, started_at=?, words=0, score=0, finished_at=NULL WHERE id=?`,
		strings.Join(snap.Letters, ""), snap.StartedAt.UTC().Format(time.RFC3339), snap.ID)
	if err != nil {
		log.Warn().Err(err).Str("roundId", snap.ID).Msg("reset round row")
	}
}

// recordFinish closes the round row once and bumps the owner's stats.
func (s *Server) recordFinish(ctx context.Context, snap game.Snapshot) {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE rounds SET words=?, score=?, finished_at=? WHERE id=? AND finished_at IS NULL`,
		len(snap.Words), snap.Score, s.Now().UTC().Format(time.RFC3339), snap.ID)
	if err != nil {
		log.Warn().Err(err).Str("roundId", snap.ID).Msg("finish round row")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return
	}
	var userID *string
	if err := s.DB.QueryRowContext(ctx, `SELECT user_id FROM rounds WHERE id=?`, snap.ID).Scan(&userID); err != nil || userID == nil {
		return
	}
	if err := s.Auth.Users.RecordRound(ctx, *userID, snap.Score); err != nil {
		log.Warn().Err(err).Str("user", *userID).Msg("record round stats")
	}
}

// claimAnonRounds moves guest rounds to a user account after sign in.
func (s *Server) claimAnonRounds(ctx context.Context, anonID, userID string) {
	if anonID == "" || userID == "" {
		return
	}
	if _, err := s.DB.ExecContext(ctx, `UPDATE rounds SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID); err != nil {
		log.Warn().Err(err).Msg("claim anon rounds")
	}
}

type roundRow struct {
	ID         string `json:"id"`
	Mode       string `json:"mode"`
	Theme      string `json:"theme,omitempty"`
	Letters    string `json:"letters"`
	Words      int    `json:"words"`
	Score      int    `json:"score"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt,omitempty"`
}

// recentRounds lists a user's latest rounds.
func (s *Server) recentRounds(ctx context.Context, userID string, limit int) ([]roundRow, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, mode, theme, letters, words, score, started_at, COALESCE(finished_at,'')
		 FROM rounds WHERE user_id=? ORDER BY started_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []roundRow{}
	for rows.Next() {
		var rr roundRow
		if err := rows.Scan(&rr.ID, &rr.Mode, &rr.Theme, &rr.Letters, &rr.Words, &rr.Score, &rr.StartedAt, &rr.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}
