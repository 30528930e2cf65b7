// Package theme decides whether a word belongs to a themed or bonus word list.
// Matching words are worth double; the multiplier itself is applied by the caller.
package theme

import (
	"slices"
	"strings"
)

var catalog = map[string][]string{
	"technology": {
		"app", "bug", "bit", "byte", "chip", "code", "data", "disk", "file", "hack",
		"link", "node", "port", "ram", "web", "wifi", "bot", "cpu", "net", "api",
		"cloud", "pixel", "robot", "laser", "phone", "server", "screen", "mouse",
	},
	"science": {
		"atom", "cell", "gene", "ion", "lab", "mass", "star", "test", "wave", "acid",
		"base", "heat", "dna", "orbit", "force", "energy", "theory", "proton", "quartz",
	},
	"gaming": {
		"boss", "loot", "mod", "npc", "pvp", "quest", "raid", "spawn", "tank", "xp",
		"level", "score", "guild", "dice", "play", "win", "lose", "game", "pixel", "joystick",
	},
	"movies": {
		"act", "cast", "cut", "film", "hero", "plot", "role", "scene", "star", "cue",
		"reel", "set", "take", "actor", "drama", "genre", "movie", "oscar", "script", "sequel",
	},
	"music": {
		"band", "bass", "beat", "drum", "jazz", "note", "song", "tune", "hum", "rap",
		"pop", "rock", "key", "lyre", "harp", "piano", "guitar", "choir", "melody", "rhythm",
	},
	"food": {
		"bun", "jam", "pie", "tea", "egg", "fig", "ham", "rice", "soup", "taco",
		"bread", "cake", "cheese", "honey", "lemon", "pepper", "salad", "sugar", "toast", "butter",
	},
	"sports": {
		"ball", "bat", "goal", "golf", "net", "puck", "race", "run", "ski", "swim",
		"team", "win", "coach", "match", "score", "skate", "sprint", "relay", "medal", "trophy",
	},
	"nature": {
		"bay", "dew", "fern", "fog", "leaf", "moss", "oak", "pine", "rain", "sea",
		"sky", "sun", "tree", "wind", "cloud", "river", "stone", "forest", "flower", "meadow",
	},
}

var index = buildIndex()

func buildIndex() map[string]map[string]struct{} {
	idx := make(map[string]map[string]struct{}, len(catalog))
	for name, ws := range catalog {
		set := make(map[string]struct{}, len(ws))
		for _, w := range ws {
			set[w] = struct{}{}
		}
		idx[name] = set
	}
	return idx
}

// IsThemeRelated reports whether word is in the curated list for theme.
// Unknown themes relate to nothing.
func IsThemeRelated(word, theme string) bool {
	set, ok := index[strings.ToLower(strings.TrimSpace(theme))]
	if !ok {
		return false
	}
	_, ok = set[strings.ToLower(word)]
	return ok
}

// IsBonusWord reports case-insensitive membership of word in bonus.
func IsBonusWord(word string, bonus []string) bool {
	for _, b := range bonus {
		if strings.EqualFold(word, strings.TrimSpace(b)) {
			return true
		}
	}
	return false
}

// Names returns the known theme names, sorted.
func Names() []string {
	out := make([]string, 0, len(catalog))
	for name := range catalog {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Words returns a copy of the curated words for theme, or nil if unknown.
func Words(theme string) []string {
	ws, ok := catalog[strings.ToLower(theme)]
	if !ok {
		return nil
	}
	return slices.Clone(ws)
}
