package files_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hoangit2k2/lovepink/internal/infrastructure/files"
)

func TestLocalStore_StoreAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := files.NewLocalStore(dir, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Store(ctx, "123456.png", bytes.NewReader([]byte("image-data"))))

	data, err := os.ReadFile(filepath.Join(dir, "123456.png"))
	require.NoError(t, err)
	require.Equal(t, "image-data", string(data))

	require.NoError(t, store.Delete(ctx, "123456.png"))
	_, err = os.Stat(filepath.Join(dir, "123456.png"))
	require.True(t, os.IsNotExist(err))
}

func TestLocalStore_StripsPathComponents(t *testing.T) {
	dir := t.TempDir()
	store, err := files.NewLocalStore(dir, nil)
	require.NoError(t, err)

	require.NoError(t, store.Store(context.Background(), "../escape.png", bytes.NewReader([]byte("x"))))

	// The file lands inside the base directory regardless of the name.
	_, err = os.Stat(filepath.Join(dir, "escape.png"))
	require.NoError(t, err)
}

func TestLocalStore_DeleteMissingFileFails(t *testing.T) {
	dir := t.TempDir()
	store, err := files.NewLocalStore(dir, nil)
	require.NoError(t, err)

	require.Error(t, store.Delete(context.Background(), "missing.png"))
}
