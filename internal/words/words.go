// Package words validates candidate words for a round.
//
// A candidate is valid when it is at least three letters long, the lexicon
// recognises it, and (when a letter set is given) it can be spelled using each
// available letter at most as many times as it appears. An unknown word is
// rejected without looking at the letters.
package words

import (
	"errors"
	"strings"

	"github.com/snoowords/go-server/internal/lexicon"
)

var (
	ErrTooShort         = errors.New("too short")
	ErrNotAWord         = errors.New("not a word")
	ErrNotConstructible = errors.New("letters not available")
)

// Lexicon is the lookup the Validator needs.
type Lexicon interface {
	Lookup(word string) bool
}

// Validator checks candidates against a shared, read-only Lexicon.
type Validator struct {
	lex Lexicon
}

// NewValidator returns a Validator over lex.
func NewValidator(lex Lexicon) *Validator {
	return &Validator{lex: lex}
}

// Normalize trims and lowercases a candidate.
func Normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// Check returns nil for a valid word, or ErrTooShort, ErrNotAWord or
// ErrNotConstructible. A nil letters slice skips the constructibility check.
func (v *Validator) Check(word string, letters []string) error {
	w := Normalize(word)
	if len(w) < lexicon.MinWordLen {
		return ErrTooShort
	}
	if !v.lex.Lookup(w) {
		return ErrNotAWord
	}
	if letters != nil && !CanConstruct(w, letters) {
		return ErrNotConstructible
	}
	return nil
}

// IsValidWord reports whether word passes Check.
func (v *Validator) IsValidWord(word string, letters []string) bool {
	return v.Check(word, letters) == nil
}

// CanConstruct reports whether word can be spelled from letters, using each
// letter no more often than it appears. Comparison ignores case.
func CanConstruct(word string, letters []string) bool {
	freq := make(map[rune]int, len(letters))
	for _, l := range letters {
		for _, r := range strings.ToLower(l) {
			freq[r]++
		}
	}
	for _, r := range strings.ToLower(word) {
		if freq[r] == 0 {
			return false
		}
		freq[r]--
	}
	return true
}
