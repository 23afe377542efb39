package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chainregistry/pkg/domain"
	"chainregistry/pkg/platform/sentinel"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	hash := domain.ContentHash(strings.Repeat("ab", 32))

	t.Run("writes once per key", func(t *testing.T) {
		stored, err := store.SaveIfAbsent(ctx, hash, "cGF5bG9hZA==")
		require.NoError(t, err)
		assert.True(t, stored)

		stored, err = store.SaveIfAbsent(ctx, hash, "b3RoZXI=")
		require.NoError(t, err)
		assert.False(t, stored)

		payload, err := store.Load(ctx, hash)
		require.NoError(t, err)
		assert.Equal(t, "cGF5bG9hZA==", payload)
	})

	t.Run("counts only payload files", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("missing key is not found", func(t *testing.T) {
		_, err := store.Load(ctx, domain.ContentHash(strings.Repeat("cd", 32)))
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("path traversal keys never reach the filesystem", func(t *testing.T) {
		_, err := store.Load(ctx, domain.ContentHash("../../etc/passwd"))
		assert.ErrorIs(t, err, sentinel.ErrNotFound)

		_, err = store.SaveIfAbsent(ctx, domain.ContentHash("../escape"), "x")
		assert.Error(t, err)
	})
}
