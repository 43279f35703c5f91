package server

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/janpfeifer/GoMemory/internal/game"
)

func newTestSession(seed uint64) *Session {
	return NewSession(game.NewDeckBuilder(rand.New(rand.NewPCG(seed, seed+1))))
}

// flipFunc flips a card and returns the resulting board.
type flipFunc func(position int) (game.Board, error)

// playToWin plays with a perfect memory, only learning identities from the
// boards returned by flip. It returns the final board.
func playToWin(t *testing.T, board game.Board, flip flipFunc) game.Board {
	t.Helper()
	seen := make(map[game.Identity][]int) // Unmatched positions seen per identity.
	known := make(map[int]bool)
	next := 0

	doFlip := func(position int) game.Board {
		t.Helper()
		b, err := flip(position)
		if err != nil {
			t.Fatalf("flip(%d): %v\nboard: %s", position, err, &board)
		}
		cv := b.Cards[position]
		if !cv.FaceUp || cv.Identity == nil {
			t.Fatalf("flipped card %d not revealed: %+v", position, cv)
		}
		if !known[position] {
			known[position] = true
			seen[*cv.Identity] = append(seen[*cv.Identity], position)
		}
		board = b
		return b
	}
	nextUnseen := func() int {
		for known[next] {
			next++
		}
		return next
	}
	forget := func(id game.Identity) { delete(seen, id) }

	for maxMoves := 4 * board.NumPairs; !board.Won; maxMoves-- {
		if maxMoves == 0 {
			t.Fatalf("game not won after too many moves: %s", &board)
		}

		// A pair already known: pick it.
		var pair []int
		var pairID game.Identity
		for id, positions := range seen {
			if len(positions) == 2 {
				pair, pairID = positions, id
				break
			}
		}
		if pair != nil {
			doFlip(pair[0])
			if b := doFlip(pair[1]); b.LastOutcome == nil || *b.LastOutcome != game.OutcomeMatched {
				t.Fatalf("known pair %v didn't match", pair)
			}
			forget(pairID)
			continue
		}

		position := nextUnseen()
		id := *doFlip(position).Cards[position].Identity
		if positions := seen[id]; len(positions) == 2 {
			// Its partner was seen before.
			doFlip(positions[0])
			forget(id)
			continue
		}
		position = nextUnseen()
		if second := doFlip(position); *second.LastOutcome == game.OutcomeMatched {
			forget(*second.Cards[position].Identity)
		}
	}
	return board
}

func TestSessionPlaysToWin(t *testing.T) {
	for _, size := range game.BoardSizes() {
		t.Run(size.String(), func(t *testing.T) {
			s := newTestSession(uint64(size) + 7)
			board, err := s.Start(size, "", nil)
			if err != nil {
				t.Fatalf("Start: %v", err)
			}
			if board.Won || board.NumMoves != 0 || len(board.Cards) != size.NumCards() || board.LastOutcome != nil {
				t.Fatalf("unexpected new board: %s", &board)
			}
			for i, cv := range board.Cards {
				if cv.FaceUp || cv.Identity != nil {
					t.Errorf("new board card %d should be hidden: %+v", i, cv)
				}
			}

			final := playToWin(t, board, s.Flip)
			if final.NumPairsFound != size.NumPairs() {
				t.Errorf("expected %d pairs found, got %d", size.NumPairs(), final.NumPairsFound)
			}
			if final.NumMoves < size.NumPairs() {
				t.Errorf("won in %d moves, fewer than the %d pairs", final.NumMoves, size.NumPairs())
			}
			current, ok := s.Board()
			if !ok || !current.Won {
				t.Errorf("session board should be won, got %v, %s", ok, &current)
			}
		})
	}
}

func TestSessionErrors(t *testing.T) {
	s := newTestSession(1)
	if _, err := s.Flip(0); !errors.Is(err, ErrNoGame) {
		t.Errorf("Flip without a game: expected ErrNoGame, got %v", err)
	}
	if _, ok := s.Board(); ok {
		t.Errorf("Board without a game should return false")
	}

	if _, err := s.Start(game.Small, "", nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := s.Flip(0); err != nil {
		t.Fatalf("Flip(0): %v", err)
	}

	// A failed Start keeps the current game.
	if _, err := s.Start(game.Small, "custom", []string{"a.png"}); !errors.Is(err, game.ErrImageCountMismatch) {
		t.Errorf("expected ErrImageCountMismatch, got %v", err)
	}
	board, ok := s.Board()
	if !ok || !board.IsFaceUp(0) {
		t.Errorf("failed Start should keep the current game, got %s", &board)
	}
	if _, err := s.Flip(0); !errors.Is(err, game.ErrAlreadyRevealed) {
		t.Errorf("expected ErrAlreadyRevealed, got %v", err)
	}
	if _, err := s.Flip(99); !errors.Is(err, game.ErrInvalidPosition) {
		t.Errorf("expected ErrInvalidPosition, got %v", err)
	}
}

func TestSessionCustomImages(t *testing.T) {
	s := newTestSession(2)
	images := []string{"/images/a", "/images/b", "/images/c", "/images/d"}
	board, err := s.Start(game.Small, "holiday", images)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if board.GameName != "holiday" {
		t.Errorf("expected game name %q, got %q", "holiday", board.GameName)
	}
	board, err = s.Flip(3)
	if err != nil {
		t.Fatalf("Flip: %v", err)
	}
	id := board.Cards[3].Identity
	if id == nil || !id.IsCustom() {
		t.Fatalf("expected a custom identity, got %+v", id)
	}
	found := false
	for _, img := range images {
		found = found || img == id.ImageURL
	}
	if !found {
		t.Errorf("identity image %q not in %v", id.ImageURL, images)
	}
}
