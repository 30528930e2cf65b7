// Package letters draws the letter set for a round.
package letters

import (
	"math/rand/v2"
	"sync"
	"time"
)

const (
	// DefaultCount is the number of letters drawn when no count is given.
	DefaultCount = 12
	// DefaultMinVowels is the number of slots reserved for vowels.
	DefaultMinVowels = 3
	// vowelChance is the probability a free slot draws from the vowels.
	vowelChance = 0.3
)

var (
	vowels     = []string{"A", "E", "I", "O", "U"}
	consonants = []string{
		"B", "C", "D", "F", "G", "H", "J", "K", "L", "M", "N",
		"P", "Q", "R", "S", "T", "V", "W", "X", "Y", "Z",
	}
)

// Generator draws letter sets from an injected random source.
// A Generator is safe for concurrent use.
type Generator struct {
	MinVowels int

	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Generator drawing from rng.
func New(rng *rand.Rand, minVowels int) *Generator {
	if minVowels < 0 {
		minVowels = 0
	}
	return &Generator{MinVowels: minVowels, rng: rng}
}

// NewSeeded returns a Generator with a deterministic source.
func NewSeeded(seed uint64) *Generator {
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), DefaultMinVowels)
}

// Generate returns count uppercase letters with at least MinVowels vowels
// (or count vowels when count is smaller). count <= 0 means DefaultCount.
// Free slots can also land on vowels, so the vowel count may exceed the minimum.
func (g *Generator) Generate(count int) []string {
	if count <= 0 {
		count = DefaultCount
	}
	reserved := min(g.MinVowels, count)

	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]string, 0, count)
	for i := 0; i < reserved; i++ {
		out = append(out, vowels[g.rng.IntN(len(vowels))])
	}
	for i := reserved; i < count; i++ {
		if g.rng.Float64() < vowelChance {
			out = append(out, vowels[g.rng.IntN(len(vowels))])
		} else {
			out = append(out, consonants[g.rng.IntN(len(consonants))])
		}
	}
	g.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// IsVowel reports whether l is one of A, E, I, O, U (either case).
func IsVowel(l string) bool {
	switch l {
	case "A", "E", "I", "O", "U", "a", "e", "i", "o", "u":
		return true
	}
	return false
}

// CountVowels returns how many entries of ls are vowels.
func CountVowels(ls []string) int {
	n := 0
	for _, l := range ls {
		if IsVowel(l) {
			n++
		}
	}
	return n
}

var (
	defaultOnce sync.Once
	defaultGen  *Generator
)

// GenerateLetters draws from a process-wide time-seeded Generator.
func GenerateLetters(count int) []string {
	defaultOnce.Do(func() {
		seed := uint64(time.Now().UnixNano())
		defaultGen = New(rand.New(rand.NewPCG(seed, seed>>1)), DefaultMinVowels)
	})
	return defaultGen.Generate(count)
}
