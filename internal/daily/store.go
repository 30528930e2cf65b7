package daily

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/snoowords/go-server/internal/theme"
)

// Theme is the theme of a day and its bonus words.
type Theme struct {
	Date       string   `json:"date"`
	Name       string   `json:"theme"`
	BonusWords []string `json:"bonusWords"`
}

// Result is one player's finished daily round.
type Result struct {
	PlayerID  string `json:"playerId"`
	Date      string `json:"date"`
	Score     int    `json:"score"`
	Words     int    `json:"words"`
	ElapsedMs int    `json:"elapsedMs"`
}

// LBRow is a leaderboard line.
type LBRow struct {
	PlayerID  string `json:"playerId"`
	Username  string `json:"username"`
	Score     int    `json:"score"`
	Words     int    `json:"words"`
	ElapsedMs int    `json:"elapsedMs"`
}

// Store reads and writes daily themes and results.
type Store struct {
	db   *sql.DB
	salt string
}

func NewStore(db *sql.DB, salt string) *Store { return &Store{db: db, salt: salt} }

// Theme returns the stored theme for date, or a deterministic pick from the
// built-in catalogue when nothing was stored.
func (s *Store) Theme(ctx context.Context, date string) (Theme, error) {
	var name, bonus string
	err := s.db.QueryRowContext(ctx,
		`SELECT theme, bonus_words FROM daily_themes WHERE date=?`, date,
	).Scan(&name, &bonus)
	switch {
	case err == nil:
		return Theme{Date: date, Name: name, BonusWords: splitWords(bonus)}, nil
	case errors.Is(err, sql.ErrNoRows):
		names := theme.Names()
		name = names[ThemeIndex(date, s.salt, len(names))]
		return Theme{Date: date, Name: name, BonusWords: theme.Words(name)}, nil
	default:
		return Theme{}, err
	}
}

// SetTheme stores (or replaces) the theme for t.Date.
func (s *Store) SetTheme(ctx context.Context, t Theme) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_themes(date, theme, bonus_words) VALUES(?,?,?)
		 ON CONFLICT(date) DO UPDATE SET theme=excluded.theme, bonus_words=excluded.bonus_words`,
		t.Date, strings.ToLower(t.Name), joinWords(t.BonusWords),
	)
	return err
}

func (s *Store) AlreadyPlayed(ctx context.Context, playerID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE player_id=? AND date=?`,
		playerID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records r once per player and day; it reports whether a row was written.
func (s *Store) InsertResult(ctx context.Context, r Result) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(player_id, date, score, words, elapsed_ms)
		 VALUES(?,?,?,?,?)`, r.PlayerID, r.Date, r.Score, r.Words, r.ElapsedMs,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Leaderboard returns the best results for date: score, then words, then speed.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.player_id, COALESCE(u.username, 'guest'), r.score, r.words, r.elapsed_ms
		 FROM daily_results r
		 LEFT JOIN users u ON u.id = r.player_id
		 WHERE r.date=?
		 ORDER BY r.score DESC, r.words DESC, r.elapsed_ms ASC, r.created_at ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.PlayerID, &r.Username, &r.Score, &r.Words, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func joinWords(ws []string) string {
	clean := make([]string, 0, len(ws))
	for _, w := range ws {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			clean = append(clean, w)
		}
	}
	return strings.Join(clean, ",")
}

func splitWords(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
