// internal/game/types.go
//
// Core type definitions for a SnooWords round.
// Defines:
//   - Mode: which scoring policy a round uses.
//   - ScoredWord: an accepted word and its points.
//   - Snapshot: a read-only copy of a round for callers and JSON.

package game

import (
	"errors"
	"time"
)

// Mode selects the scoring policy of a round.
//   - "classic": additive bonuses (length tiers, rare letters).
//   - "battle":  multiplicative tiers used by head-to-head battles.
type Mode string

const (
	ModeClassic Mode = "classic"
	ModeBattle  Mode = "battle"
)

// ParseMode maps a client string to a Mode, defaulting to classic.
func ParseMode(s string) Mode {
	if Mode(s) == ModeBattle {
		return ModeBattle
	}
	return ModeClassic
}

const (
	StatePlaying  = "playing"
	StateFinished = "finished"
)

var (
	ErrRoundOver    = errors.New("round over")
	ErrAlreadyFound = errors.New("already found")
)

// ScoredWord is a word accepted in a round.
type ScoredWord struct {
	Word   string `json:"word"`
	Points int    `json:"points"`
	Themed bool   `json:"themed"`
}

// Snapshot is a copy of a round's state, safe to hand out.
type Snapshot struct {
	ID         string       `json:"id"`
	Mode       Mode         `json:"mode"`
	Policy     string       `json:"policy"`
	Theme      string       `json:"theme,omitempty"`
	BonusWords []string     `json:"bonusWords,omitempty"`
	Letters    []string     `json:"letters"`
	Words      []ScoredWord `json:"words"`
	Score      int          `json:"score"`
	State      string       `json:"state"`
	StartedAt  time.Time    `json:"startedAt"`
	EndsAt     *time.Time   `json:"endsAt,omitempty"` // nil for untimed rounds
}
