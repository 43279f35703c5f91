package game

import (
	"fmt"
	"strings"
)

// BoardSize is one of the fixed difficulty tiers of the game.
// It determines the shape of the grid and the number of cards.
type BoardSize int

const (
	Small BoardSize = iota
	Medium
	Large
)

var boardSizes = []struct {
	name     string
	numCards int
	width    int
}{
	Small:  {"small", 8, 2},
	Medium: {"medium", 18, 3},
	Large:  {"large", 24, 4},
}

// BoardSizes returns all tiers, from the smallest to the largest.
func BoardSizes() []BoardSize {
	return []BoardSize{Small, Medium, Large}
}

// Valid reports whether b is one of the known tiers.
func (b BoardSize) Valid() bool {
	return b >= 0 && int(b) < len(boardSizes)
}

// NumCards is the total number of cards on the board. Always even.
func (b BoardSize) NumCards() int {
	if !b.Valid() {
		return 0
	}
	return boardSizes[b].numCards
}

// Width is the number of columns of the grid.
func (b BoardSize) Width() int {
	if !b.Valid() {
		return 0
	}
	return boardSizes[b].width
}

// Height is the number of rows of the grid.
func (b BoardSize) Height() int {
	if !b.Valid() {
		return 0
	}
	return b.NumCards() / b.Width()
}

// NumPairs is the number of distinct identities on the board.
func (b BoardSize) NumPairs() int {
	return b.NumCards() / 2
}

func (b BoardSize) String() string {
	if !b.Valid() {
		return fmt.Sprintf("BoardSize(%d)", int(b))
	}
	return boardSizes[b].name
}

// MarshalText implements encoding.TextMarshaler, so sizes travel as "small", "medium" or "large".
func (b BoardSize) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSize, int(b))
	}
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *BoardSize) UnmarshalText(text []byte) error {
	size, err := ParseBoardSize(string(text))
	if err != nil {
		return err
	}
	*b = size
	return nil
}

// ParseBoardSize converts a tier name (case-insensitive) into a BoardSize.
func ParseBoardSize(name string) (BoardSize, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, size := range BoardSizes() {
		if size.String() == name {
			return size, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSize, name)
}

// BoardSizeForCards returns the tier with exactly numCards cards.
// A downloaded custom game with N images maps to BoardSizeForCards(2*N).
func BoardSizeForCards(numCards int) (BoardSize, error) {
	for _, size := range BoardSizes() {
		if size.NumCards() == numCards {
			return size, nil
		}
	}
	return 0, fmt.Errorf("%w: no board with %d cards", ErrUnknownSize, numCards)
}
