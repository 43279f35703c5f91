package game

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// DeckBuilder creates shuffled decks of paired cards.
// It is not safe for concurrent use, since it owns its random source.
type DeckBuilder struct {
	// Icons is the built-in catalog used when no custom images are given.
	Icons []string

	rng *rand.Rand
}

// NewDeckBuilder creates a DeckBuilder over the default Icons.
// If rng is nil a time-seeded generator is used; pass a seeded one for reproducible decks.
func NewDeckBuilder(rng *rand.Rand) *DeckBuilder {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>32|seed<<32))
	}
	return &DeckBuilder{Icons: Icons, rng: rng}
}

// Build returns a new deck for the given size, with every card face down.
//
// If images is nil, size.NumPairs() distinct icons are drawn at random from the
// catalog. Otherwise images must hold exactly size.NumPairs() distinct references,
// one per pair.
func (b *DeckBuilder) Build(size BoardSize, images []string) (Deck, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSize, int(size))
	}
	numPairs := size.NumPairs()

	var ids []Identity
	if images == nil {
		if len(b.Icons) < numPairs {
			return nil, fmt.Errorf("%w: need %d icons, catalog has %d", ErrInsufficientCatalog, numPairs, len(b.Icons))
		}
		ids = make([]Identity, 0, numPairs)
		for _, slot := range b.rng.Perm(len(b.Icons))[:numPairs] {
			ids = append(ids, Identity{Icon: slot})
		}
	} else {
		if len(images) != numPairs {
			return nil, fmt.Errorf("%w: board %s needs %d images, got %d", ErrImageCountMismatch, size, numPairs, len(images))
		}
		seen := make(map[string]bool, len(images))
		ids = make([]Identity, 0, numPairs)
		for i, url := range images {
			if seen[url] {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateImage, url)
			}
			seen[url] = true
			ids = append(ids, Identity{Icon: i, ImageURL: url})
		}
	}

	deck := make(Deck, 0, 2*numPairs)
	for range 2 {
		for _, id := range ids {
			deck = append(deck, Card{Identity: id})
		}
	}
	b.rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck, nil
}
