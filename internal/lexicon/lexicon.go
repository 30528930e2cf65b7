// Package lexicon holds the expanded set of acceptable words.
//
// A Lexicon is built once from a base word list: every base word contributes
// generated plurals, verb forms, comparatives and prefixed/suffixed forms, and a
// curated set of short common words is seeded on top. After Build the Lexicon is
// read-only and safe to share between goroutines without locking.
package lexicon

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/snoowords/go-server/assets"
)

// MinWordLen is the shortest word the lexicon stores or accepts.
const MinWordLen = 3

var ErrEmpty = errors.New("lexicon: base word list is empty")

// derived are the forms tried when a candidate is not a direct member.
var derived = []func(string) string{
	func(w string) string { return w + "s" },
	func(w string) string { return w + "ed" },
	func(w string) string { return w + "ing" },
	func(w string) string { return w + "'s" },
	func(w string) string { return "un" + w },
	func(w string) string { return "re" + w },
}

// Lexicon is an immutable word set.
type Lexicon struct {
	words  map[string]struct{}
	common map[string]struct{}
}

// Build expands base into a Lexicon. Base words shorter than MinWordLen are ignored.
func Build(base []string) *Lexicon {
	l := &Lexicon{
		words:  make(map[string]struct{}, len(base)*32),
		common: make(map[string]struct{}, 512),
	}
	for _, w := range base {
		if len(w) < MinWordLen {
			continue
		}
		for _, v := range variants(w) {
			l.words[v] = struct{}{}
		}
	}
	for _, group := range commonWords {
		for _, w := range group {
			l.common[w] = struct{}{}
			l.common[w+"'s"] = struct{}{}
			l.words[w] = struct{}{}
			l.words[w+"'s"] = struct{}{}
		}
	}
	return l
}

// Contains reports direct membership of a lowercase word.
func (l *Lexicon) Contains(w string) bool {
	_, ok := l.words[w]
	return ok
}

// IsCommon reports whether w is one of the curated common words (or its possessive).
func (l *Lexicon) IsCommon(w string) bool {
	_, ok := l.common[w]
	return ok
}

// Lookup decides whether a lowercase candidate is a word: curated common words
// first, then direct membership, then its derived forms.
func (l *Lexicon) Lookup(w string) bool {
	if l.IsCommon(w) || l.Contains(w) {
		return true
	}
	for _, p := range derived {
		if l.Contains(p(w)) {
			return true
		}
	}
	return false
}

// Size returns the number of stored entries.
func (l *Lexicon) Size() int { return len(l.words) }

// Load builds a Lexicon from a word file, or from the embedded list when path is empty.
func Load(path string) (*Lexicon, error) {
	var (
		base []string
		err  error
	)
	if path == "" {
		base, err = assets.BaseWords()
	} else {
		base, err = readFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("lexicon: load: %w", err)
	}
	if len(base) == 0 {
		return nil, ErrEmpty
	}
	l := Build(base)
	log.Info().Str("source", sourceName(path)).Int("base", len(base)).Int("entries", l.Size()).Msg("lexicon built")
	return l, nil
}

func readFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return assets.ReadWords(f)
}

func sourceName(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
)

// Default lazily builds the embedded Lexicon once. Prefer injecting a Lexicon
// built with Load; Default exists for callers with nothing to inject.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		base, err := assets.BaseWords()
		if err != nil {
			log.Error().Err(err).Msg("read embedded word list")
		}
		defaultLex = Build(base)
	})
	return defaultLex
}
