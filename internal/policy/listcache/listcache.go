// Package listcache implements the mtime-aware policy-file cache
// (spec.md §4.C): a policy list is re-read only when the backing file's
// modification time has advanced since the last load, and a stat failure
// on an already-cached file keeps serving the stale contents rather than
// clearing the cache.
package listcache

import (
	"os"
	"sync"
	"time"

	"github.com/firejail/execfilter/internal/policy/listpolicy"
)

type entry struct {
	mtime   time.Time
	entries []string
}

// Cache holds one parsed policy list per file path, reloading a path's
// contents only when its mtime has advanced past the last load.
type Cache struct {
	mu    sync.Mutex
	files map[string]entry
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{files: make(map[string]entry)}
}

// Get returns the parsed entries for path, reloading from disk if the
// file's mtime has advanced since the last successful load. If stat
// fails and nothing was previously cached, Get returns a nil slice and
// the stat error; if something was previously cached, the stale entries
// are returned with a nil error.
func (c *Cache) Get(path string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fi, err := os.Stat(path)
	if err != nil {
		if cached, ok := c.files[path]; ok {
			return cached.entries, nil
		}
		return nil, err
	}

	cached, ok := c.files[path]
	if ok && !fi.ModTime().After(cached.mtime) {
		return cached.entries, nil
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		if ok {
			return cached.entries, nil
		}
		return nil, err
	}

	parsed := listpolicy.Parse(contents)
	c.files[path] = entry{mtime: fi.ModTime(), entries: parsed}
	return parsed, nil
}

// Invalidate drops any cached entry for path, forcing the next Get to
// reload from disk regardless of mtime.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}
