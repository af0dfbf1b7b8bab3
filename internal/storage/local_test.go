package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveExistsDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := NewLocalStorage(Config{BasePath: dir, BaseURL: "http://localhost:8000/backend/uploads/"})
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "abc.jpg", strings.NewReader("data"), "image/jpeg"))

	content, err := os.ReadFile(filepath.Join(dir, "abc.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))

	exists, err := s.Exists(ctx, "abc.jpg")
	require.NoError(t, err)
	assert.True(t, exists)

	url, err := s.GetURL(ctx, "abc.jpg")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/backend/uploads/abc.jpg", url)

	require.NoError(t, s.Delete(ctx, "abc.jpg"))
	exists, err = s.Exists(ctx, "abc.jpg")
	require.NoError(t, err)
	assert.False(t, exists)

	// повторное удаление не ошибка
	assert.NoError(t, s.Delete(ctx, "abc.jpg"))
}

func TestLocalStorage_RejectsPathTraversal(t *testing.T) {
	s, err := NewLocalStorage(Config{BasePath: t.TempDir()})
	require.NoError(t, err)

	for _, name := range []string{"../evil.jpg", "sub/dir.jpg", "", "/abs.jpg"} {
		err := s.Save(context.Background(), name, strings.NewReader("x"), "image/jpeg")
		assert.Error(t, err, "name %q", name)
	}
}

func TestNameFromURL(t *testing.T) {
	assert.Equal(t, "abc.jpg", NameFromURL("http://localhost:8000/backend/uploads/abc.jpg"))
	assert.Equal(t, "abc.jpg", NameFromURL("https://cdn.example.com/abc.jpg?v=2"))
	assert.Equal(t, "abc.jpg", NameFromURL("abc.jpg"))
	assert.Equal(t, "", NameFromURL(""))
}
