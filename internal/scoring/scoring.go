// Package scoring turns accepted words into points.
//
// Two policies exist side by side and give different results for the same word:
// AdditiveScoring (classic rounds) and MultiplicativeScoring (battle rounds).
// Callers pick one explicitly; they are not interchangeable.
package scoring

import "strings"

// Policy scores a word that has already been validated.
type Policy interface {
	Name() string
	Score(word string) int
}

const (
	NameAdditive       = "additive"
	NameMultiplicative = "multiplicative"
)

// AdditiveScoring: one point per letter, +2 per Q/Z/X/J,
// +3 from six letters and another +5 from eight.
type AdditiveScoring struct{}

func (AdditiveScoring) Name() string { return NameAdditive }

func (AdditiveScoring) Score(word string) int {
	n := len(word)
	pts := n
	for _, r := range strings.ToUpper(word) {
		switch r {
		case 'Q', 'Z', 'X', 'J':
			pts += 2
		}
	}
	if n >= 6 {
		pts += 3
	}
	if n >= 8 {
		pts += 5
	}
	return pts
}

// MultiplicativeScoring: length scaled by 1.5 from seven letters, again by 1.5
// from nine, and by 1.2 when any of J/K/Q/X/Z appears; floored.
type MultiplicativeScoring struct{}

func (MultiplicativeScoring) Name() string { return NameMultiplicative }

func (MultiplicativeScoring) Score(word string) int {
	n := len(word)
	// exact rational arithmetic so the floor never suffers float error
	num, den := n, 1
	if n >= 7 {
		num, den = num*3, den*2
	}
	if n >= 9 {
		num, den = num*3, den*2
	}
	if strings.ContainsAny(strings.ToUpper(word), "JKQXZ") {
		num, den = num*6, den*5
	}
	return num / den
}

// ByName resolves a policy name; unknown names fall back to AdditiveScoring.
func ByName(name string) Policy {
	if name == NameMultiplicative {
		return MultiplicativeScoring{}
	}
	return AdditiveScoring{}
}

// CalculateWordPoints scores word with AdditiveScoring.
func CalculateWordPoints(word string) int {
	return AdditiveScoring{}.Score(word)
}

// Themed applies the bonus-word multiplier to already computed points.
func Themed(points int) int { return points * 2 }
