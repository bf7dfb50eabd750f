package cache_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/dailyenglish/internal/cache"
)

func TestFileCache_NeverWritten(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir(), "u1")
	require.NoError(t, err)

	data, err := c.ReadLogs()
	assert.NoError(t, err)
	assert.Nil(t, data)
}

func TestFileCache_WriteThenRead(t *testing.T) {
	dir := t.TempDir()
	c, err := cache.NewFileCache(dir, "u1")
	require.NoError(t, err)

	require.NoError(t, c.WriteLogs([]byte(`{"2025-03-10":{}}`)))
	require.NoError(t, c.WriteLogs([]byte(`{"2025-03-11":{}}`)))

	data, err := c.ReadLogs()
	require.NoError(t, err)
	assert.JSONEq(t, `{"2025-03-11":{}}`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileCache_UIDCannotEscapeDir(t *testing.T) {
	dir := t.TempDir()
	c, err := cache.NewFileCache(dir, "../../etc/passwd")
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(c.Path()))
}

func TestFileCache_SeparateUsers(t *testing.T) {
	factory := cache.FileFactory(t.TempDir())

	a, err := factory("a")
	require.NoError(t, err)
	b, err := factory("b")
	require.NoError(t, err)

	require.NoError(t, a.WriteLogs([]byte("A")))
	data, err := b.ReadLogs()
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestMemoryCache(t *testing.T) {
	c := cache.NewMemoryCache()

	data, err := c.ReadLogs()
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, c.WriteLogs([]byte("x")))
	c.FailWrites(errors.New("quota exceeded"))
	assert.Error(t, c.WriteLogs([]byte("y")))

	data, err = c.ReadLogs()
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}
