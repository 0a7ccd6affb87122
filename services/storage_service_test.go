package services_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geovista-api/services"
)

func TestLocalStorageSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	storage, err := services.NewLocalStorageService(dir, "/uploads")
	require.NoError(t, err)

	url, err := storage.Save("sunset.jpg", strings.NewReader("jpeg bytes"))
	require.NoError(t, err)

	// Stored under a generated name so uploads never collide, with the
	// original extension kept.
	assert.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.Equal(t, ".jpg", filepath.Ext(url))
	assert.NotEqual(t, "/uploads/sunset.jpg", url)

	content, err := os.ReadFile(filepath.Join(dir, filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(content))

	again, err := storage.Save("sunset.jpg", strings.NewReader("other bytes"))
	require.NoError(t, err)
	assert.NotEqual(t, url, again)

	require.NoError(t, storage.Delete(url))
	_, err = os.Stat(filepath.Join(dir, filepath.Base(url)))
	assert.True(t, os.IsNotExist(err))

	// Deleting an already-removed upload is not an error.
	assert.NoError(t, storage.Delete(url))
}

func TestLocalStorageCreatesBaseDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	_, err := services.NewLocalStorageService(dir, "/uploads")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
