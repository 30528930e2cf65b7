package lexicon

// commonWords are short everyday words the base list tends to miss.
// Each one is accepted as-is and with a possessive 's.
var commonWords = map[string][]string{
	"food": {
		"egg", "ham", "jam", "pie", "tea", "bun", "fig", "nut", "oat", "yam",
		"rice", "meat", "fish", "corn", "bean", "beef", "cake", "milk", "soup", "tart",
		"lime", "pear", "plum", "kiwi", "taco", "chip", "stew", "roll", "loaf", "salt",
	},
	"animals": {
		"cat", "dog", "cow", "pig", "hen", "fox", "owl", "bat", "rat", "ant",
		"bee", "elk", "emu", "eel", "ape", "yak", "cub", "pup", "ram", "ewe",
		"bear", "deer", "duck", "frog", "goat", "lamb", "lion", "mole", "moth", "mule",
		"seal", "swan", "toad", "wolf", "worm", "crab", "hawk", "dove", "colt", "calf",
	},
	"actions": {
		"run", "hop", "sit", "eat", "dig", "hug", "nap", "jog", "mix", "cut",
		"jump", "walk", "swim", "kick", "spin", "skip", "roll", "toss", "grab", "pull",
		"push", "wave", "clap", "sing", "hide", "seek", "ride", "dash", "race", "bake",
	},
	"household": {
		"bed", "mug", "cup", "pan", "pot", "rug", "mop", "jar", "lid", "fan",
		"lamp", "sofa", "desk", "sink", "tub", "door", "fork", "dish", "vase", "bowl",
		"sock", "shoe", "coat", "hat", "bag", "box", "key", "pen", "bin", "tap",
	},
	"nature": {
		"sun", "sky", "sea", "ice", "fog", "dew", "mud", "log", "bay", "ore",
		"tree", "leaf", "rock", "sand", "rain", "snow", "wind", "hill", "lake", "pond",
		"moss", "fern", "seed", "root", "dune", "cave", "reef", "wave", "star", "moon",
	},
	"body": {
		"arm", "leg", "eye", "ear", "lip", "toe", "hip", "rib", "jaw", "gum",
		"hand", "foot", "head", "neck", "knee", "nose", "skin", "bone", "back", "chin",
		"palm", "heel", "shin", "brow", "lash", "hair", "nail", "lung", "vein", "limb",
	},
	"objects": {
		"toy", "kit", "map", "net", "pin", "rod", "cap", "gem", "orb", "tag",
		"ball", "book", "card", "coin", "drum", "flag", "gift", "kite", "lock", "ring",
		"rope", "sign", "tape", "tool", "wire", "bell", "bolt", "comb", "disk", "harp",
	},
	"qualities": {
		"big", "bad", "new", "old", "hot", "wet", "dry", "shy", "sad", "odd",
		"fit", "raw", "red", "tan", "icy", "fun", "coy", "sly", "apt", "wry",
		"good", "kind", "cool", "warm", "fast", "slow", "soft", "hard", "bold", "calm",
		"dark", "deep", "fair", "fine", "free", "full", "glad", "high", "long", "nice",
	},
	"time": {
		"day", "now", "age", "era", "eve", "hour", "week", "year", "noon", "dawn",
		"dusk", "date", "time", "soon", "late", "past", "next", "once", "then", "when",
	},
	"verbs": {
		"add", "ask", "buy", "get", "got", "let", "put", "say", "see", "set",
		"try", "use", "win", "lose", "make", "take", "give", "come", "call", "find",
		"help", "keep", "know", "like", "look", "need", "play", "show", "tell", "turn",
		"want", "work", "move", "live", "feel", "read", "send", "sell", "wear", "wish",
	},
	"prepositions": {
		"for", "off", "out", "via", "per", "atop", "amid", "from", "into", "near",
		"onto", "over", "past", "till", "upon", "with",
	},
}
