package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
)

func newTestBuilder(seed uint64) *DeckBuilder {
	return NewDeckBuilder(rand.New(rand.NewPCG(seed, seed+1)))
}

func checkPairs(t *testing.T, deck Deck, numPairs int) map[Identity]int {
	t.Helper()
	if len(deck) != 2*numPairs {
		t.Fatalf("expected %d cards, got %d", 2*numPairs, len(deck))
	}
	counts := make(map[Identity]int)
	for i, card := range deck {
		counts[card.Identity]++
		if card.FaceUp || card.Matched {
			t.Errorf("card %d should start face down and unmatched, got %+v", i, card)
		}
	}
	if len(counts) != numPairs {
		t.Errorf("expected %d distinct identities, got %d", numPairs, len(counts))
	}
	for id, count := range counts {
		if count != 2 {
			t.Errorf("identity %+v appears %d times, expected 2", id, count)
		}
	}
	return counts
}

func TestBuildDeckIcons(t *testing.T) {
	for _, size := range BoardSizes() {
		t.Run(size.String(), func(t *testing.T) {
			deck, err := newTestBuilder(42).Build(size, nil)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			for id := range checkPairs(t, deck, size.NumPairs()) {
				if id.IsCustom() {
					t.Errorf("unexpected custom identity %+v", id)
				}
				if IconFor(id) == "" {
					t.Errorf("identity %+v is not in the catalog", id)
				}
			}
		})
	}
}

func TestBuildDeckImages(t *testing.T) {
	images := make([]string, Medium.NumPairs())
	for i := range images {
		images[i] = fmt.Sprintf("https://example.com/images/%d.jpeg", i)
	}
	deck, err := newTestBuilder(7).Build(Medium, images)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	counts := checkPairs(t, deck, Medium.NumPairs())
	for i, url := range images {
		if counts[Identity{Icon: i, ImageURL: url}] != 2 {
			t.Errorf("image %q should appear twice", url)
		}
	}
}

func TestBuildDeckDeterministic(t *testing.T) {
	d1, err1 := newTestBuilder(1234).Build(Large, nil)
	d2, err2 := newTestBuilder(1234).Build(Large, nil)
	if err1 != nil || err2 != nil {
		t.Fatalf("Build: %v, %v", err1, err2)
	}
	for i := range d1 {
		if d1[i] != d2[i] {
			t.Fatalf("decks built with the same seed differ at %d: %+v != %+v", i, d1[i], d2[i])
		}
	}
}

func TestBuildDeckShuffles(t *testing.T) {
	// With a uniform shuffle, every position should see many identities over many builds.
	builder := newTestBuilder(99)
	seen := make([]map[int]bool, Small.NumCards())
	for i := range seen {
		seen[i] = make(map[int]bool)
	}
	images := []string{"a", "b", "c", "d"}
	for range 200 {
		deck, err := builder.Build(Small, images)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		for i, card := range deck {
			seen[i][card.Identity.Icon] = true
		}
	}
	for i, ids := range seen {
		if len(ids) != len(images) {
			t.Errorf("position %d only ever held %d identities", i, len(ids))
		}
	}
}

func TestBuildDeckErrors(t *testing.T) {
	t.Run("ImageCountMismatch", func(t *testing.T) {
		_, err := newTestBuilder(1).Build(Small, []string{"a", "b", "c"})
		if !errors.Is(err, ErrImageCountMismatch) {
			t.Errorf("expected ErrImageCountMismatch, got %v", err)
		}
	})
	t.Run("EmptyImages", func(t *testing.T) {
		_, err := newTestBuilder(1).Build(Small, []string{})
		if !errors.Is(err, ErrImageCountMismatch) {
			t.Errorf("expected ErrImageCountMismatch, got %v", err)
		}
	})
	t.Run("DuplicateImage", func(t *testing.T) {
		_, err := newTestBuilder(1).Build(Small, []string{"a", "b", "a", "c"})
		if !errors.Is(err, ErrDuplicateImage) {
			t.Errorf("expected ErrDuplicateImage, got %v", err)
		}
	})
	t.Run("InsufficientCatalog", func(t *testing.T) {
		b := newTestBuilder(1)
		b.Icons = Icons[:Medium.NumPairs()-1]
		_, err := b.Build(Medium, nil)
		if !errors.Is(err, ErrInsufficientCatalog) {
			t.Errorf("expected ErrInsufficientCatalog, got %v", err)
		}
	})
	t.Run("UnknownSize", func(t *testing.T) {
		_, err := newTestBuilder(1).Build(BoardSize(17), nil)
		if !errors.Is(err, ErrUnknownSize) {
			t.Errorf("expected ErrUnknownSize, got %v", err)
		}
	})
}

func TestDefaultCatalogIsLargeEnough(t *testing.T) {
	if len(Icons) < Large.NumPairs() {
		t.Fatalf("catalog has %d icons, largest board needs %d", len(Icons), Large.NumPairs())
	}
	seen := make(map[string]bool)
	for _, icon := range Icons {
		if seen[icon] {
			t.Errorf("icon %q is repeated in the catalog", icon)
		}
		seen[icon] = true
	}
}
