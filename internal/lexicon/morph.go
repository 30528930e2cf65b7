package lexicon

import "strings"

var (
	prefixes = []string{"un", "re", "in", "dis", "over", "under", "pre", "post", "non", "anti"}
	suffixes = []string{"able", "ible", "al", "ial", "ful", "ic", "ical", "ish", "less", "ly", "ous", "y"}
)

const (
	// comparatives are only generated for words up to this length
	maxComparativeLen = 7
	// suffixed forms longer than this are skipped
	maxSuffixedLen = 12
)

// variants returns the generated forms of a base word, base word first.
// Blind suffixing over-generates on purpose: coverage beats precision here.
func variants(w string) []string {
	out := make([]string, 0, 32)
	out = append(out, w)
	out = append(out, plurals(w)...)
	out = append(out, verbForms(w)...)
	if len(w) <= maxComparativeLen {
		out = append(out, comparatives(w)...)
	}
	for _, p := range prefixes {
		out = append(out, p+w)
	}
	for _, s := range suffixes {
		if len(w)+len(s) <= maxSuffixedLen {
			out = append(out, w+s)
		}
	}
	return out
}

func plurals(w string) []string {
	out := []string{w + "s"}
	if strings.HasSuffix(w, "y") {
		out = append(out, w[:len(w)-1]+"ies")
	}
	if strings.HasSuffix(w, "f") {
		out = append(out, w[:len(w)-1]+"ves")
	}
	if hasAnySuffix(w, "s", "x", "z", "ch", "sh") {
		out = append(out, w+"es")
	}
	return out
}

func verbForms(w string) []string {
	out := []string{w + "ed", w + "ing"}
	if strings.HasSuffix(w, "e") {
		out = append(out, w[:len(w)-1]+"ing")
	}
	if doublesFinal(w) {
		d := w + w[len(w)-1:]
		out = append(out, d+"ing", d+"ed")
	}
	return out
}

func comparatives(w string) []string {
	out := []string{w + "er", w + "est"}
	if strings.HasSuffix(w, "e") {
		out = append(out, w+"r", w+"st")
	}
	if doublesFinal(w) {
		d := w + w[len(w)-1:]
		out = append(out, d+"er", d+"est")
	}
	return out
}

// doublesFinal reports whether w ends consonant-vowel-consonant (not "w"),
// the shape whose final consonant doubles before -ing/-ed/-er/-est.
func doublesFinal(w string) bool {
	n := len(w)
	if n < 3 || w[n-1] == 'w' {
		return false
	}
	return isConsonant(w[n-3]) && isVowel(w[n-2]) && isConsonant(w[n-1])
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

func isConsonant(c byte) bool {
	return c >= 'a' && c <= 'z' && !isVowel(c)
}

func hasAnySuffix(w string, sfx ...string) bool {
	for _, s := range sfx {
		if strings.HasSuffix(w, s) {
			return true
		}
	}
	return false
}
