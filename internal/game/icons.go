package game

// Icons is the built-in artwork catalog used for boards without custom images.
// It must hold at least Large.NumPairs() entries.
var Icons = []string{
	"🐶", "🐱", "🦊", "🐼", "🐸", "🦁", "🐙", "🦋",
	"🌻", "🍄", "🌵", "🍉", "🍒", "🚀", "⚽", "🎈",
	"🎸", "🧩", "🌈", "⭐",
}

// IconFor returns the artwork of a built-in identity, or "" for custom or unknown ones.
func IconFor(id Identity) string {
	if id.IsCustom() || id.Icon < 0 || id.Icon >= len(Icons) {
		return ""
	}
	return Icons[id.Icon]
}
