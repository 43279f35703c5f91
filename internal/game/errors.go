package game

import (
	"errors"
	"fmt"
)

// ErrConfiguration is wrapped by every error raised while setting up a game.
// Setup errors are all-or-nothing: no deck or engine is returned with them.
var ErrConfiguration = errors.New("configuration error")

// ErrEngine is wrapped by every error raised by a MemoryGame during play.
// The offending call never changes the game state.
var ErrEngine = errors.New("engine error")

var (
	ErrUnknownSize         = fmt.Errorf("%w: unknown board size", ErrConfiguration)
	ErrInsufficientCatalog = fmt.Errorf("%w: not enough icons in catalog", ErrConfiguration)
	ErrImageCountMismatch  = fmt.Errorf("%w: number of images doesn't match board size", ErrConfiguration)
	ErrDuplicateImage      = fmt.Errorf("%w: duplicate image", ErrConfiguration)
	ErrInvalidName         = fmt.Errorf("%w: invalid game name", ErrConfiguration)

	ErrInvalidPosition = fmt.Errorf("%w: invalid position", ErrEngine)
	ErrAlreadyRevealed = fmt.Errorf("%w: card already face up", ErrEngine)
)
