package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v2"
	"github.com/google/uuid"
	"k8s.io/klog/v2"
)

const (
	gamePrefix  = "game/"
	imagePrefix = "image/"
)

// Badger implements GameStore and ImageStore on a single Badger database.
//
// Keys:
//
//	game/<name>           -> JSON GameDocument
//	image/<game>/<uuid>   -> image bytes, referenced by the path "<game>/<uuid>"
type Badger struct {
	db *badger.DB
}

// Open opens (or creates) the store in dir. If dir is empty the store lives in memory
// and is lost when closed.
func Open(dir string) (*Badger, error) {
	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{})
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open store in %q: %w", dir, err)
	}
	klog.V(1).Infof("store: opened (dir=%q, in-memory=%v)", dir, dir == "")
	return &Badger{db: db}, nil
}

// Close releases the database.
func (s *Badger) Close() error {
	return s.db.Close()
}

func gameKey(name string) []byte {
	return []byte(gamePrefix + name)
}

func imageKey(path string) []byte {
	return []byte(imagePrefix + path)
}

// Game implements GameStore.
func (s *Badger) Game(ctx context.Context, name string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var doc GameDocument
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("game %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read game %q: %w", name, err)
	}
	return doc.Images, nil
}

// CreateGame implements GameStore. The existence check and the write happen in the
// same transaction, so two concurrent creations of the same name can't both succeed.
func (s *Badger) CreateGame(ctx context.Context, name string, images []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(GameDocument{Images: images})
	if err != nil {
		return fmt.Errorf("failed to marshal game %q: %w", name, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(gameKey(name))
		if err == nil {
			return fmt.Errorf("game %q: %w", name, ErrAlreadyExists)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(gameKey(name), data)
	})
	if errors.Is(err, badger.ErrConflict) {
		return fmt.Errorf("game %q: %w", name, ErrAlreadyExists)
	}
	return err
}

// DeleteGame implements GameStore.
func (s *Badger) DeleteGame(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(gameKey(name))
	})
}

// PutImage implements ImageStore.
func (s *Badger) PutImage(ctx context.Context, gameName string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if gameName == "" || strings.Contains(gameName, "/") {
		return "", fmt.Errorf("invalid game name %q for image", gameName)
	}
	path := gameName + "/" + uuid.NewString()
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(imageKey(path), data)
	})
	if err != nil {
		return "", fmt.Errorf("failed to store image %q: %w", path, err)
	}
	klog.V(2).Infof("store: stored image %s (%d bytes)", path, len(data))
	return path, nil
}

// Image implements ImageStore.
func (s *Badger) Image(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(imageKey(path))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("image %q: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read image %q: %w", path, err)
	}
	return data, nil
}

// DeleteImage implements ImageStore.
func (s *Badger) DeleteImage(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(imageKey(path))
	})
}

// badgerLogger routes Badger's logs to klog. Badger is chatty at info level,
// so its info and debug lines only show up with -v=2.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	klog.Errorf("badger: "+strings.TrimSuffix(format, "\n"), args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	klog.Warningf("badger: "+strings.TrimSuffix(format, "\n"), args...)
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	klog.V(2).Infof("badger: "+strings.TrimSuffix(format, "\n"), args...)
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	klog.V(3).Infof("badger: "+strings.TrimSuffix(format, "\n"), args...)
}
