// Package cache keeps each user's serialized day-map on local disk, so a
// session can start and keep working while the remote store is unreachable.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/vytor/dailyenglish/internal/repository"
)

// FileCache stores one user's day-map as a JSON file. Writes go through a
// temp file and rename so a crash never leaves a half-written cache.
type FileCache struct {
	path string
	mu   sync.Mutex
}

var _ repository.LocalCache = (*FileCache)(nil)

// NewFileCache returns the cache file for uid inside dir, creating dir if needed.
func NewFileCache(dir, uid string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	name := "logs_" + url.PathEscape(uid) + ".json"
	return &FileCache{path: filepath.Join(dir, name)}, nil
}

func (c *FileCache) Path() string {
	return c.path
}

func (c *FileCache) ReadLogs() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

func (c *FileCache) WriteLogs(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".logs-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

// MemoryCache is a LocalCache that lives only as long as the process.
type MemoryCache struct {
	mu   sync.Mutex
	data []byte
	err  error
}

var _ repository.LocalCache = (*MemoryCache)(nil)

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (c *MemoryCache) ReadLogs() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		return nil, nil
	}
	out := make([]byte, len(c.data))
	copy(out, c.data)
	return out, nil
}

func (c *MemoryCache) WriteLogs(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.data = append([]byte(nil), data...)
	return nil
}

// FailWrites makes subsequent writes return err, simulating a full disk.
// Pass nil to restore normal behavior.
func (c *MemoryCache) FailWrites(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
}

// Factory opens the LocalCache for a user.
type Factory func(uid string) (repository.LocalCache, error)

// FileFactory returns a Factory placing every user's cache file in dir.
func FileFactory(dir string) Factory {
	return func(uid string) (repository.LocalCache, error) {
		return NewFileCache(dir, uid)
	}
}

// MemoryFactory returns a Factory that hands each user a fresh MemoryCache.
func MemoryFactory() Factory {
	return func(string) (repository.LocalCache, error) {
		return NewMemoryCache(), nil
	}
}
