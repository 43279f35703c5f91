package server

import (
	"errors"
	"sync"

	"github.com/janpfeifer/GoMemory/internal/game"
)

var ErrNoGame = errors.New("no game in progress")

// Session is the game played over one client connection.
//
// game.MemoryGame does no locking, so Session serializes every call to it: one
// flip is processed at a time, even if a client manages to send them concurrently.
type Session struct {
	mu          sync.Mutex
	builder     *game.DeckBuilder
	gameName    string
	game        *game.MemoryGame
	lastOutcome *game.Outcome
}

// NewSession creates a session without a game. builder may be nil.
func NewSession(builder *game.DeckBuilder) *Session {
	if builder == nil {
		builder = game.NewDeckBuilder(nil)
	}
	return &Session{builder: builder}
}

// Start replaces the current game by a new one. images is nil for built-in
// icons, and gameName is the custom game the images come from.
// On error the current game is kept.
func (s *Session) Start(size game.BoardSize, gameName string, images []string) (game.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := game.NewMemoryGame(size, images, s.builder)
	if err != nil {
		return game.Board{}, err
	}
	s.game = g
	s.gameName = gameName
	s.lastOutcome = nil
	return game.NewBoard(s.gameName, s.game, nil), nil
}

// Flip flips the card at position and returns the resulting board.
func (s *Session) Flip(position int) (game.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game == nil {
		return game.Board{}, ErrNoGame
	}
	outcome, err := s.game.Flip(position)
	if err != nil {
		return game.Board{}, err
	}
	s.lastOutcome = &outcome
	return game.NewBoard(s.gameName, s.game, s.lastOutcome), nil
}

// Board returns a snapshot of the current game, or false if there is none.
func (s *Session) Board() (game.Board, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game == nil {
		return game.Board{}, false
	}
	return game.NewBoard(s.gameName, s.game, s.lastOutcome), true
}
