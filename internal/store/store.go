// Package store persists custom boards: the game documents ({gameName -> image
// references}) and the image bytes they reference.
package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// GameStore is the document store of published custom games.
type GameStore interface {
	// Game returns the image references of the named game, or ErrNotFound.
	Game(ctx context.Context, name string) ([]string, error)

	// CreateGame publishes a new game. It fails with ErrAlreadyExists if the name is taken.
	CreateGame(ctx context.Context, name string, images []string) error

	// DeleteGame removes a game. Deleting a missing game is not an error.
	DeleteGame(ctx context.Context, name string) error
}

// ImageStore is the blob store of uploaded images.
type ImageStore interface {
	// PutImage stores the image bytes for the given game, and returns its path
	// within the store.
	PutImage(ctx context.Context, gameName string, data []byte) (string, error)

	// Image returns the bytes stored at path, or ErrNotFound.
	Image(ctx context.Context, path string) ([]byte, error)

	// DeleteImage removes the image at path. Deleting a missing image is not an error.
	DeleteImage(ctx context.Context, path string) error
}

// GameDocument is the stored form of a published game.
type GameDocument struct {
	Images []string `json:"images"`
}

// Ensure *Badger implements both stores at compile time.
var (
	_ GameStore  = (*Badger)(nil)
	_ ImageStore = (*Badger)(nil)
)
