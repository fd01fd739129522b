package local

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, modTime time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("img"), 0o644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
}

func TestListFindsImagesNewestFirst(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeFile(t, filepath.Join(dir, "old.jpg"), now.Add(-2*time.Hour))
	writeFile(t, filepath.Join(dir, "nested", "new.PNG"), now)
	writeFile(t, filepath.Join(dir, "notes.txt"), now)
	writeFile(t, filepath.Join(dir, ".cache", "thumb.jpg"), now)

	l, err := NewLister(dir)
	require.NoError(t, err)

	got, err := l.List()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "new.PNG", got[0].Name)
	assert.Equal(t, "old.jpg", got[1].Name)
	assert.Equal(t, int64(3), got[0].Size)
	assert.Len(t, got[0].ID, 64)
	assert.Equal(t, IDFor(got[1].Path), got[1].ID)
}

func TestListMissingDirectory(t *testing.T) {
	l, err := NewLister(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)

	got, err := l.List()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetByIDAndPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.webp"), time.Now())

	l, err := NewLister(dir)
	require.NoError(t, err)

	byPath, err := l.Get("a.webp")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.webp"), byPath.Path)

	byID, err := l.Get(byPath.ID)
	require.NoError(t, err)
	assert.Equal(t, byPath.Path, byID.Path)

	_, err = l.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIsImage(t *testing.T) {
	assert.True(t, IsImage("x.JPEG"))
	assert.True(t, IsImage("/a/b.gif"))
	assert.False(t, IsImage("x.tiff"))
	assert.False(t, IsImage("jpg"))
}
