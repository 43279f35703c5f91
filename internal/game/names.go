package game

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidateGameName returns the trimmed name of a custom game, or ErrInvalidName.
// Names must have between minLen and maxLen runes, and be usable as a path segment.
func ValidateGameName(name string, minLen, maxLen int) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < minLen || n > maxLen {
		return "", fmt.Errorf("%w: %q must have between %d and %d characters",
			ErrInvalidName, name, minLen, maxLen)
	}
	if strings.ContainsAny(name, "/\\?#%") {
		return "", fmt.Errorf("%w: %q has forbidden characters", ErrInvalidName, name)
	}
	for _, r := range name {
		if r < ' ' {
			return "", fmt.Errorf("%w: %q has control characters", ErrInvalidName, name)
		}
	}
	return name, nil
}
