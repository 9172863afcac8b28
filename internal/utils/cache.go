package utils

import (
	"os"
	"sync"
	"time"
)

type cacheEntry[V any] struct {
	value   V
	modTime time.Time
	size    int64
}

// FileCache caches values derived from files. An entry is dropped as soon as
// the file's modification time or size changes.
type FileCache[V any] struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry[V]
}

// NewFileCache creates an empty cache
func NewFileCache[V any]() *FileCache[V] {
	return &FileCache[V]{
		entries: make(map[string]cacheEntry[V]),
	}
}

// Get returns the value cached for path if the file is unchanged
func (c *FileCache[V]) Get(path string) (V, bool) {
	c.mu.RLock()
	entry, ok := c.entries[path]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}

	stat, err := os.Stat(path)
	if err == nil && stat.ModTime().Equal(entry.modTime) && stat.Size() == entry.size {
		return entry.value, true
	}

	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
	return zero, false
}

// Set stores value for path, stamped with the file's current metadata
func (c *FileCache[V]) Set(path string, value V) error {
	stat, err := os.Stat(path)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = cacheEntry[V]{
		value:   value,
		modTime: stat.ModTime(),
		size:    stat.Size(),
	}
	return nil
}

// Delete removes path from the cache
func (c *FileCache[V]) Delete(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// Len returns the number of cached entries
func (c *FileCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
