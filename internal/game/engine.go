// internal/game/engine.go
//
// Round engine for SnooWords.
// Responsibilities:
//   - Hold the process-wide, read-only collaborators (lexicon validator,
//     letter generator, optional remote dictionary, clock).
//   - Create rounds; each round owns its own letters and accepted words.
//   - Validate submissions: lexicon first, remote dictionary only when the
//     lexicon says no, then letter constructibility.
//
// Notes:
//   - A remote dictionary failure is logged and treated as "not confirmed";
//     it never reaches the player as its own error.

package game

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/snoowords/go-server/internal/letters"
	"github.com/snoowords/go-server/internal/lexicon"
	"github.com/snoowords/go-server/internal/words"
)

// DefaultRoundDuration is the time limit of a round unless overridden.
const DefaultRoundDuration = 2 * time.Minute

// Dictionary is a remote word check consulted when the lexicon rejects a word.
// An error means the answer is unknown.
type Dictionary interface {
	Lookup(ctx context.Context, word string) (bool, error)
}

// Engine creates rounds over shared, read-only collaborators.
type Engine struct {
	validator *words.Validator
	gen       *letters.Generator
	dict      Dictionary
	now       func() time.Time
	count     int
	duration  time.Duration
}

// EngineOption customises an Engine.
type EngineOption func(*Engine)

// WithDictionary enables the remote dictionary fallback.
func WithDictionary(d Dictionary) EngineOption { return func(e *Engine) { e.dict = d } }

// WithClock replaces time.Now (tests).
func WithClock(now func() time.Time) EngineOption { return func(e *Engine) { e.now = now } }

// WithLetterCount sets the default number of letters per round.
func WithLetterCount(n int) EngineOption { return func(e *Engine) { e.count = n } }

// WithRoundDuration sets the default time limit; zero or less means untimed.
func WithRoundDuration(d time.Duration) EngineOption { return func(e *Engine) { e.duration = d } }

// NewEngine wires an Engine around lex and gen.
func NewEngine(lex *lexicon.Lexicon, gen *letters.Generator, opts ...EngineOption) *Engine {
	e := &Engine{
		validator: words.NewValidator(lex),
		gen:       gen,
		now:       time.Now,
		count:     letters.DefaultCount,
		duration:  DefaultRoundDuration,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Validator exposes the engine's validator for stateless checks.
func (e *Engine) Validator() *words.Validator { return e.validator }

// Letters draws a fresh letter set; count <= 0 uses the engine default.
func (e *Engine) Letters(count int) []string {
	if count <= 0 {
		count = e.count
	}
	return e.gen.Generate(count)
}

// Validate checks a word outside any round. A nil letter set skips the
// constructibility check.
func (e *Engine) Validate(ctx context.Context, word string, ls []string) error {
	return e.check(ctx, words.Normalize(word), ls)
}

// check validates w (already normalised) against ls, consulting the remote
// dictionary only for words the lexicon does not know.
func (e *Engine) check(ctx context.Context, w string, ls []string) error {
	err := e.validator.Check(w, ls)
	if !errors.Is(err, words.ErrNotAWord) || e.dict == nil {
		return err
	}
	ok, derr := e.dict.Lookup(ctx, w)
	if derr != nil {
		log.Warn().Err(derr).Str("word", w).Msg("remote dictionary could not confirm")
		return words.ErrNotAWord
	}
	if !ok {
		return words.ErrNotAWord
	}
	if ls != nil && !words.CanConstruct(w, ls) {
		return words.ErrNotConstructible
	}
	return nil
}
