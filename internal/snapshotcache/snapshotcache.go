// Adapted directly from vovakirdan-surge's internal/driver/dcache.go:
// a msgpack-encoded payload written to a temp file and atomically
// renamed into place, keyed by a content hash rather than a file path
// so a cached snapshot survives the source file moving. Cache plays
// the same role for IndexedFile snapshots that DiskCache plays for
// surge's ModuleMeta: skip re-running the frontend over a translation
// unit whose source bytes have not changed since the last run.
package snapshotcache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/dadada1995/ccls/internal/ccindex"
)

// Digest is a content hash over a translation unit's source bytes
// plus its compile args, the cache key.
type Digest [sha256.Size]byte

// Sum computes the Digest for one translation unit's inputs.
func Sum(source []byte, compileArgs []string) Digest {
	h := sha256.New()
	h.Write(source)
	for _, arg := range compileArgs {
		h.Write([]byte{0})
		h.Write([]byte(arg))
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// Cache stores IndexedFile snapshots on disk, keyed by Digest.
// Thread-safe for concurrent access from a parallel multi-TU run.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open initializes a Cache rooted at dir, creating it if necessary.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key Digest) string {
	return filepath.Join(c.dir, hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes a snapshot to the disk cache.
func (c *Cache) Put(key Digest, snapshot *ccindex.IndexedFile) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if err := snapshot.Encode(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, p)
}

// Get reads and deserializes a snapshot from the disk cache. The
// second return value is false (with a nil error) on a cache miss.
func (c *Cache) Get(key Digest) (*ccindex.IndexedFile, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	snapshot, err := ccindex.Decode(f)
	if err != nil {
		return nil, false, err
	}
	return snapshot, true, nil
}
