package store

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Badger {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

func TestGameStore(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.Game(ctx, "pets")
	require.ErrorIs(t, err, ErrNotFound)

	images := []string{"/images/pets/1", "/images/pets/2", "/images/pets/3", "/images/pets/4"}
	require.NoError(t, s.CreateGame(ctx, "pets", images))

	got, err := s.Game(ctx, "pets")
	require.NoError(t, err)
	require.Equal(t, images, got)

	err = s.CreateGame(ctx, "pets", []string{"other"})
	require.ErrorIs(t, err, ErrAlreadyExists)

	// The original document is untouched.
	got, err = s.Game(ctx, "pets")
	require.NoError(t, err)
	require.Equal(t, images, got)

	require.NoError(t, s.DeleteGame(ctx, "pets"))
	_, err = s.Game(ctx, "pets")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.DeleteGame(ctx, "pets"))
}

func TestImageStore(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	data := []byte("\xff\xd8\xff\xe0 not really a jpeg")
	path, err := s.PutImage(ctx, "pets", data)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(path, "pets/"), "unexpected path %q", path)

	other, err := s.PutImage(ctx, "pets", data)
	require.NoError(t, err)
	require.NotEqual(t, path, other, "each upload gets its own path")

	got, err := s.Image(ctx, path)
	require.NoError(t, err)
	require.Equal(t, data, got)

	require.NoError(t, s.DeleteImage(ctx, path))
	_, err = s.Image(ctx, path)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.PutImage(ctx, "a/b", data)
	require.Error(t, err)
}

func TestCanceledContext(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Game(ctx, "pets")
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, s.CreateGame(ctx, "pets", nil), context.Canceled)
	_, err = s.PutImage(ctx, "pets", []byte("x"))
	require.ErrorIs(t, err, context.Canceled)
}
