// Package boards publishes and downloads custom boards: named games made of
// user-provided images.
package boards

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/janpfeifer/GoMemory/internal/config"
	"github.com/janpfeifer/GoMemory/internal/game"
	"github.com/janpfeifer/GoMemory/internal/store"
	"go.uber.org/multierr"
	"k8s.io/klog/v2"
)

var (
	ErrInvalidName = game.ErrInvalidName
	ErrNameTaken   = errors.New("game name already taken")
	ErrNotFound    = errors.New("game not found")
)

// ImagePathPrefix is the URL path under which stored images are served.
const ImagePathPrefix = "/images/"

// Board is a downloaded custom board, ready to be played.
type Board struct {
	Name   string         `json:"name"`
	Size   game.BoardSize `json:"size"`
	Images []string       `json:"images"`
}

func (b Board) clone() Board {
	b.Images = slices.Clone(b.Images)
	return b
}

// Service publishes and downloads custom boards.
type Service struct {
	games  store.GameStore
	images store.ImageStore
	cfg    *config.Config
	cache  *lru.Cache[string, Board]
}

// New creates a Service over the given stores. A nil cfg uses config.Default().
func New(games store.GameStore, images store.ImageStore, cfg *config.Config) (*Service, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	cache, err := lru.New[string, Board](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create board cache: %w", err)
	}
	return &Service{games: games, images: images, cfg: cfg, cache: cache}, nil
}

// ValidateName returns the trimmed game name, or ErrInvalidName.
func (s *Service) ValidateName(name string) (string, error) {
	return game.ValidateGameName(name, s.cfg.MinGameName, s.cfg.MaxGameName)
}

// ImageURL returns the public reference of an image stored at path.
func (s *Service) ImageURL(path string) string {
	return strings.TrimSuffix(s.cfg.PublicURL, "/") + ImagePathPrefix + path
}

// Publish uploads the images and publishes them as the custom game name.
// It returns the published board.
//
// The steps run in order, and each one stops the pipeline on failure: validate
// the name, check it's free, check the image count, upload every image, publish
// the game. Images uploaded before a failure are deleted.
func (s *Service) Publish(ctx context.Context, name string, size game.BoardSize, images [][]byte) (Board, error) {
	name, err := s.ValidateName(name)
	if err != nil {
		return Board{}, err
	}
	if err := s.checkNameFree(ctx, name); err != nil {
		return Board{}, err
	}
	if !size.Valid() {
		return Board{}, fmt.Errorf("%w: %d", game.ErrUnknownSize, int(size))
	}
	if len(images) != size.NumPairs() {
		return Board{}, fmt.Errorf("%w: board %s needs %d images, got %d",
			game.ErrImageCountMismatch, size, size.NumPairs(), len(images))
	}

	paths, err := s.uploadImages(ctx, name, images)
	if err != nil {
		return Board{}, s.cleanup(paths, err)
	}
	urls := make([]string, len(paths))
	for i, path := range paths {
		urls[i] = s.ImageURL(path)
	}

	if err := s.games.CreateGame(ctx, name, urls); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			err = fmt.Errorf("%w: %q", ErrNameTaken, name)
		}
		return Board{}, s.cleanup(paths, err)
	}
	board := Board{Name: name, Size: size, Images: urls}
	s.cache.Add(name, board.clone())
	klog.Infof("Successfully created game %q (%s, %d images)", name, size, len(urls))
	return board, nil
}

func (s *Service) checkNameFree(ctx context.Context, name string) error {
	_, err := s.games.Game(ctx, name)
	if err == nil {
		return fmt.Errorf("%w: %q", ErrNameTaken, name)
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return fmt.Errorf("failed to check game name %q: %w", name, err)
}

// uploadImages stores the images and returns their paths. On failure it returns
// the paths uploaded so far along with the error.
func (s *Service) uploadImages(ctx context.Context, name string, images [][]byte) ([]string, error) {
	paths := make([]string, 0, len(images))
	for i, data := range images {
		path, err := s.images.PutImage(ctx, name, data)
		if err != nil {
			return paths, fmt.Errorf("failed to upload image %d of %d: %w", i+1, len(images), err)
		}
		paths = append(paths, path)
		klog.V(1).Infof("Finished uploading image %d of game %q: %s", i+1, name, path)
	}
	return paths, nil
}

// cleanup deletes the uploaded images, and returns err combined with any cleanup failures.
// It uses a fresh context, since the request context may be the reason for the failure.
func (s *Service) cleanup(paths []string, err error) error {
	for _, path := range paths {
		err = multierr.Append(err, s.images.DeleteImage(context.Background(), path))
	}
	klog.Errorf("Failed game creation, removed %d uploaded images: %v", len(paths), err)
	return err
}

// Download returns the named custom board, ready to be played.
// The board size is derived from the number of images.
func (s *Service) Download(ctx context.Context, name string) (Board, error) {
	name = strings.TrimSpace(name)
	if board, ok := s.cache.Get(name); ok {
		return board.clone(), nil
	}
	images, err := s.games.Game(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return Board{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return Board{}, fmt.Errorf("failed to retrieve game %q: %w", name, err)
	}
	if len(images) == 0 {
		return Board{}, fmt.Errorf("%w: %q has no images", ErrNotFound, name)
	}
	size, err := game.BoardSizeForCards(2 * len(images))
	if err != nil {
		return Board{}, fmt.Errorf("invalid custom game %q: %w", name, err)
	}
	board := Board{Name: name, Size: size, Images: images}
	s.cache.Add(name, board.clone())
	return board, nil
}

// imagePath returns the store path of an image URL built by ImageURL, or false
// if the image is not served by this service.
func (s *Service) imagePath(imageURL string) (string, bool) {
	return strings.CutPrefix(imageURL, strings.TrimSuffix(s.cfg.PublicURL, "/")+ImagePathPrefix)
}

// Delete removes a published game and the images it owns, and evicts it from the cache.
// Images not served by this service are left alone.
func (s *Service) Delete(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	images, err := s.games.Game(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return fmt.Errorf("failed to retrieve game %q: %w", name, err)
	}

	// The document goes first, so the game is never playable with missing images.
	if err := s.games.DeleteGame(ctx, name); err != nil {
		return fmt.Errorf("failed to delete game %q: %w", name, err)
	}
	s.cache.Remove(name)

	var errs error
	for _, imageURL := range images {
		if path, ok := s.imagePath(imageURL); ok {
			errs = multierr.Append(errs, s.images.DeleteImage(ctx, path))
		}
	}
	if errs != nil {
		return fmt.Errorf("game %q deleted, but not all its images: %w", name, errs)
	}
	klog.Infof("Deleted game %q (%d images)", name, len(images))
	return nil
}

// Image returns the bytes of an image served under ImagePathPrefix.
func (s *Service) Image(ctx context.Context, path string) ([]byte, error) {
	data, err := s.images.Image(ctx, path)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: image %q", ErrNotFound, path)
	}
	return data, err
}
