package game

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/snoowords/go-server/internal/scoring"
	"github.com/snoowords/go-server/internal/theme"
	"github.com/snoowords/go-server/internal/words"
)

// Options configure a new round. Zero values take the engine defaults.
type Options struct {
	Mode       Mode
	Theme      string
	BonusWords []string
	Count      int
	Duration   time.Duration // negative means untimed
	Letters    []string      // fixed letter set; drawn when empty
	Owner      string        // player id; empty means anyone
}

// Round is one player's game: a letter set, the words accepted so far, and a
// time limit. A Round is safe for concurrent use; rounds never share state.
type Round struct {
	mu sync.Mutex

	engine   *Engine
	id       string
	owner    string
	mode     Mode
	policy   scoring.Policy
	theme    string
	bonus    []string
	count    int
	duration time.Duration

	letters   []string
	words     []ScoredWord
	found     map[string]struct{}
	score     int
	startedAt time.Time
	finished  bool
	resets    int
}

// NewRound starts a round.
func (e *Engine) NewRound(o Options) *Round {
	if o.Mode == "" {
		o.Mode = ModeClassic
	}
	if o.Duration == 0 {
		o.Duration = e.duration
	}
	ls := slices.Clone(o.Letters)
	if len(ls) == 0 {
		ls = e.Letters(o.Count)
	}
	policy := scoring.Policy(scoring.AdditiveScoring{})
	if o.Mode == ModeBattle {
		policy = scoring.MultiplicativeScoring{}
	}
	return &Round{
		engine:    e,
		id:        uuid.NewString(),
		owner:     o.Owner,
		mode:      o.Mode,
		policy:    policy,
		theme:     o.Theme,
		bonus:     slices.Clone(o.BonusWords),
		count:     len(ls),
		duration:  o.Duration,
		letters:   ls,
		found:     make(map[string]struct{}),
		startedAt: e.now(),
	}
}

// ID returns the round identifier.
func (r *Round) ID() string { return r.id }

// Owner returns the player id the round was started for.
func (r *Round) Owner() string { return r.owner }

// Submit validates word and, on success, scores it and appends it to the
// round. Errors: ErrRoundOver, ErrAlreadyFound, words.ErrTooShort,
// words.ErrNotAWord, words.ErrNotConstructible.
//
// The lock is not held during the word check (it may call the remote
// dictionary); round state is checked again before the word is recorded.
func (r *Round) Submit(ctx context.Context, word string) (ScoredWord, error) {
	w := words.Normalize(word)

	r.mu.Lock()
	if err := r.acceptingLocked(w); err != nil {
		r.mu.Unlock()
		return ScoredWord{}, err
	}
	ls, resets := r.letters, r.resets
	r.mu.Unlock()

	if err := r.engine.check(ctx, w, ls); err != nil {
		return ScoredWord{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.acceptingLocked(w); err != nil {
		return ScoredWord{}, err
	}
	if r.resets != resets && !words.CanConstruct(w, r.letters) {
		return ScoredWord{}, words.ErrNotConstructible
	}

	sw := ScoredWord{Word: w, Points: r.policy.Score(w)}
	if theme.IsThemeRelated(w, r.theme) || theme.IsBonusWord(w, r.bonus) {
		sw.Points = scoring.Themed(sw.Points)
		sw.Themed = true
	}
	r.words = append(r.words, sw)
	r.found[w] = struct{}{}
	r.score += sw.Points
	return sw, nil
}

func (r *Round) acceptingLocked(w string) error {
	if r.finished || r.expiredLocked() {
		r.finished = true
		return ErrRoundOver
	}
	if _, dup := r.found[w]; dup {
		return ErrAlreadyFound
	}
	return nil
}

// Reset draws new letters, clears accepted words and score, and restarts the clock.
func (r *Round) Reset() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.letters = r.engine.Letters(r.count)
	r.words = nil
	r.found = make(map[string]struct{})
	r.score = 0
	r.startedAt = r.engine.now()
	r.finished = false
	r.resets++
	return r.snapshotLocked()
}

// Finish ends the round early; further submissions fail with ErrRoundOver.
func (r *Round) Finish() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.finished = true
	return r.snapshotLocked()
}

// Snapshot returns a copy of the current state.
func (r *Round) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.expiredLocked() {
		r.finished = true
	}
	return r.snapshotLocked()
}

func (r *Round) expiredLocked() bool {
	return r.duration > 0 && !r.engine.now().Before(r.startedAt.Add(r.duration))
}

func (r *Round) snapshotLocked() Snapshot {
	s := Snapshot{
		ID:         r.id,
		Mode:       r.mode,
		Policy:     r.policy.Name(),
		Theme:      r.theme,
		BonusWords: slices.Clone(r.bonus),
		Letters:    slices.Clone(r.letters),
		Words:      append([]ScoredWord{}, r.words...),
		Score:      r.score,
		State:      StatePlaying,
		StartedAt:  r.startedAt,
	}
	if r.finished {
		s.State = StateFinished
	}
	if r.duration > 0 {
		end := r.startedAt.Add(r.duration)
		s.EndsAt = &end
	}
	return s
}
