package game

import (
	"fmt"
	"strings"
)

// CardView is the client-facing representation of a card.
// Identity is only included when the card is face up.
type CardView struct {
	Index    int       `json:"index"`
	FaceUp   bool      `json:"face_up"`
	Matched  bool      `json:"matched"`
	Identity *Identity `json:"identity,omitempty"`
}

// Board is a snapshot of a game session, as sent to the presentation layer.
type Board struct {
	GameName      string     `json:"game_name,omitempty"` // Custom game name, empty for built-in icons
	Size          BoardSize  `json:"size"`
	Width         int        `json:"width"`
	Height        int        `json:"height"`
	Cards         []CardView `json:"cards"`
	NumMoves      int        `json:"num_moves"`
	NumPairs      int        `json:"num_pairs"`
	NumPairsFound int        `json:"num_pairs_found"`
	Won           bool       `json:"won"`
	LastOutcome   *Outcome   `json:"last_outcome,omitempty"` // Result of the last flip, if any
}

// BuildCardViews constructs the client-facing card list.
// Face-down cards do not expose their identity.
func BuildCardViews(cards Deck) []CardView {
	views := make([]CardView, len(cards))
	for i, card := range cards {
		cv := CardView{
			Index:   i,
			FaceUp:  card.FaceUp,
			Matched: card.Matched,
		}
		if card.FaceUp {
			id := card.Identity
			cv.Identity = &id
		}
		views[i] = cv
	}
	return views
}

// NewBoard takes a snapshot of g. lastOutcome may be nil if no flip happened yet.
func NewBoard(gameName string, g *MemoryGame, lastOutcome *Outcome) Board {
	size := g.Size()
	return Board{
		GameName:      gameName,
		Size:          size,
		Width:         size.Width(),
		Height:        size.Height(),
		Cards:         BuildCardViews(g.Cards()),
		NumMoves:      g.NumMoves(),
		NumPairs:      size.NumPairs(),
		NumPairsFound: g.NumPairsFound(),
		Won:           g.HasWon(),
		LastOutcome:   lastOutcome,
	}
}

// IsFaceUp reports whether the card at position is face up in the snapshot.
func (b *Board) IsFaceUp(position int) bool {
	if position < 0 || position >= len(b.Cards) {
		return false
	}
	return b.Cards[position].FaceUp
}

func (b *Board) String() string {
	var sb strings.Builder
	name := b.GameName
	if name == "" {
		name = "<built-in>"
	}
	fmt.Fprintf(&sb, "Board %s: size=%s, moves=%d, pairs=%d/%d, won=%t, cards: ",
		name, b.Size, b.NumMoves, b.NumPairsFound, b.NumPairs, b.Won)
	for _, c := range b.Cards {
		switch {
		case c.Matched:
			sb.WriteString("M")
		case c.FaceUp:
			sb.WriteString("U")
		default:
			sb.WriteString(".")
		}
	}
	return sb.String()
}
