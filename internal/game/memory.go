package game

import "fmt"

// Outcome is the result of a successful Flip.
type Outcome int

const (
	// OutcomePending means the flipped card is now the single selected card, waiting for a second pick.
	OutcomePending Outcome = iota
	// OutcomeMatched means the flipped card matched the pending one; both are now matched.
	OutcomeMatched
	// OutcomeMismatched means the flipped card didn't match the pending one. Both stay
	// face up until the next Flip turns them face down again.
	OutcomeMismatched
)

var outcomeNames = map[Outcome]string{
	OutcomePending:    "pending",
	OutcomeMatched:    "matched",
	OutcomeMismatched: "mismatched",
}

func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(text []byte) error {
	for k, v := range outcomeNames {
		if v == string(text) {
			*o = k
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", text)
}

// MemoryGame is the matching-game state machine of a single game session.
//
// It is synchronous and does no locking: callers sharing a MemoryGame across
// goroutines must serialize the calls themselves.
type MemoryGame struct {
	size  BoardSize
	cards Deck

	// pending is the index of the single selected, unmatched card, or -1 if none.
	pending       int
	numFlips      int
	numPairsFound int
}

// NewMemoryGame builds a fresh shuffled deck with builder and returns a game over it.
// See DeckBuilder.Build for the meaning of images.
func NewMemoryGame(size BoardSize, images []string, builder *DeckBuilder) (*MemoryGame, error) {
	if builder == nil {
		builder = NewDeckBuilder(nil)
	}
	deck, err := builder.Build(size, images)
	if err != nil {
		return nil, err
	}
	return newMemoryGame(size, deck), nil
}

// NewMemoryGameWithDeck returns a game over a given deck, in the given order.
// The deck is copied and all its cards are reset face down and unmatched.
func NewMemoryGameWithDeck(size BoardSize, deck Deck) (*MemoryGame, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSize, int(size))
	}
	if len(deck) != size.NumCards() {
		return nil, fmt.Errorf("%w: board %s needs %d cards, deck has %d", ErrImageCountMismatch, size, size.NumCards(), len(deck))
	}
	cards := make(Deck, len(deck))
	for i, card := range deck {
		cards[i] = Card{Identity: card.Identity}
	}
	return newMemoryGame(size, cards), nil
}

func newMemoryGame(size BoardSize, deck Deck) *MemoryGame {
	return &MemoryGame{
		size:    size,
		cards:   deck,
		pending: -1,
	}
}

// Flip turns the card at position face up and resolves the turn.
//
// With no card pending, every unmatched face-up card (the mismatched pair left
// visible by the previous turn) is turned face down first, and the flipped card
// becomes pending. With a card pending, the two are compared and the turn ends.
//
// It fails with ErrInvalidPosition or ErrAlreadyRevealed without changing any state.
func (g *MemoryGame) Flip(position int) (Outcome, error) {
	if position < 0 || position >= len(g.cards) {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidPosition, position, len(g.cards))
	}
	if g.cards[position].FaceUp {
		return 0, fmt.Errorf("%w: position %d", ErrAlreadyRevealed, position)
	}

	g.numFlips++
	if g.pending < 0 {
		g.restoreCards()
		g.pending = position
		g.cards[position].FaceUp = true
		return OutcomePending, nil
	}

	first := g.pending
	g.pending = -1
	g.cards[position].FaceUp = true
	if g.cards[first].Identity != g.cards[position].Identity {
		return OutcomeMismatched, nil
	}
	g.cards[first].Matched = true
	g.cards[position].Matched = true
	g.numPairsFound++
	return OutcomeMatched, nil
}

// restoreCards turns face down every card not yet matched.
func (g *MemoryGame) restoreCards() {
	for i := range g.cards {
		if !g.cards[i].Matched {
			g.cards[i].FaceUp = false
		}
	}
}

// IsFaceUp reports whether the card at position is face up.
// Positions out of range are reported as face down.
func (g *MemoryGame) IsFaceUp(position int) bool {
	if position < 0 || position >= len(g.cards) {
		return false
	}
	return g.cards[position].FaceUp
}

// HasWon reports whether all pairs have been found.
func (g *MemoryGame) HasWon() bool {
	return g.numPairsFound == g.size.NumPairs()
}

// NumMoves is the number of completed moves: a move is two flips.
func (g *MemoryGame) NumMoves() int {
	return g.numFlips / 2
}

// NumPairsFound is the number of pairs matched so far.
func (g *MemoryGame) NumPairsFound() int {
	return g.numPairsFound
}

// Size returns the board size of the game.
func (g *MemoryGame) Size() BoardSize {
	return g.size
}

// Cards returns a snapshot of the board. Changing it doesn't affect the game.
func (g *MemoryGame) Cards() Deck {
	return g.cards.Clone()
}
