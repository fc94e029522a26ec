// Adapted from Keyhole-Koro-InsightifyCore's projectstore.Store, which
// keeps an *lru.Cache[string, []ProjectArtifact] in front of its
// Postgres lookups, invalidated on every write. Cache plays the same
// role for filepath.Abs/filepath.EvalSymlinks resolution: a CLI run
// over a large project re-resolves the same header path from many
// translation units, and path resolution is one syscall per call, not
// free.
package pathcache

import (
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache canonicalizes file paths, memoizing the result across an
// entire multi-translation-unit run (spec.md §5: "parallelism is
// achieved only across independent IndexedFile instances" — this
// cache is the one piece of state those goroutines are allowed to
// share, since it is purely a memoization layer with no effect on any
// IndexedFile's content).
type Cache struct {
	abs *lru.Cache[string, string]
}

// New creates a Cache holding up to size entries.
func New(size int) (*Cache, error) {
	abs, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &Cache{abs: abs}, nil
}

// Canonical returns the absolute, symlink-resolved form of path,
// memoized in the bounded LRU: an input is resolved again only after
// its entry has been evicted.
func (c *Cache) Canonical(path string) (string, error) {
	if c == nil {
		return resolve(path)
	}
	if v, ok := c.abs.Get(path); ok {
		return v, nil
	}
	v, err := resolve(path)
	if err != nil {
		return "", err
	}
	c.abs.Add(path, v)
	return v, nil
}

func resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// A path that does not exist yet (or a dangling symlink) still
		// resolves to its absolute form; EvalSymlinks failing here is
		// not fatal to path canonicalization.
		return abs, nil
	}
	return resolved, nil
}
