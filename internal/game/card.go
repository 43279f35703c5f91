package game

// Identity distinguishes one pair from another: two cards with equal
// identities are a matching pair.
//
// Built-in cards reference a slot in the icon catalog and leave ImageURL empty.
// Custom cards carry the image reference; Icon then holds the position of the
// image in the list it was built from.
type Identity struct {
	Icon     int    `json:"icon"`
	ImageURL string `json:"image_url,omitempty"`
}

// IsCustom reports whether the identity references an external image.
func (id Identity) IsCustom() bool {
	return id.ImageURL != ""
}

// Card is one cell of the board. A matched card is always face up.
type Card struct {
	Identity Identity `json:"identity"`
	FaceUp   bool     `json:"face_up"`
	Matched  bool     `json:"matched"`
}

// Deck is the ordered sequence of cards on a board, row by row.
type Deck []Card

// Clone returns a copy of the deck that shares no state with d.
func (d Deck) Clone() Deck {
	if d == nil {
		return nil
	}
	out := make(Deck, len(d))
	copy(out, d)
	return out
}
