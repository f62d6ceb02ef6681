package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/voxus/internal/config"
)

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	s, err := NewStorage(config.Storage{Type: "local", BasePath: t.TempDir()})
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "uploads/a.txt", strings.NewReader("hello"), "text/plain"))

	ok, err := s.Exists(ctx, "uploads/a.txt")
	require.NoError(t, err)
	assert.True(t, ok)

	info, err := s.Stat(ctx, "uploads/a.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size)
	assert.Contains(t, info.ContentType, "text/plain")

	rc, err := s.Get(ctx, "uploads/a.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, s.Delete(ctx, "uploads/a.txt"))
	_, err = s.Get(ctx, "uploads/a.txt")
	assert.ErrorIs(t, err, ErrNotExist)

	t.Run("stat", func(t *testing.T) {
		_, err := s.Stat(ctx, "uploads/missing.bin")
		assert.ErrorIs(t, err, ErrNotExist)

		require.NoError(t, s.Save(ctx, "uploads/blob", strings.NewReader("%PDF-1.4 body"), "application/pdf"))
		info, err := s.Stat(ctx, "uploads/blob")
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", info.ContentType, "sniffed without an extension")

		_, err = s.Stat(ctx, "uploads")
		assert.ErrorIs(t, err, ErrNotExist)
	})

	t.Run("keys cannot escape the base path", func(t *testing.T) {
		assert.Error(t, s.Save(ctx, "../escape.txt", strings.NewReader("x"), "text/plain"))
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := NewStorage(config.Storage{Type: "ftp"})
		assert.Error(t, err)
	})
}
