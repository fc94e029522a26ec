// Package fileset implements the per-IndexedFile file registry: a
// bidirectional mapping between absolute file paths and compact, dense
// file identifiers (spec.md §4.2).
package fileset

// FileID is a dense identifier for a path registered with a Registry.
// Id 0 is reserved for the empty path, meaning "no file information".
type FileID uint32

// Registry is a bidirectional path<->FileID map, owned by exactly one
// IndexedFile. Ids are assigned as the registry's size at the moment of
// insertion, so they are dense and monotonically increasing.
type Registry struct {
	pathToID map[string]FileID
	idToPath []string
}

// NewRegistry creates an empty registry with id 0 reserved for "".
func NewRegistry() *Registry {
	r := &Registry{
		pathToID: make(map[string]FileID),
		idToPath: make([]string, 0, 1),
	}
	r.idToPath = append(r.idToPath, "")
	r.pathToID[""] = 0
	return r
}

// Resolve interns path, returning its existing FileID or allocating a
// new one. An empty path always resolves to FileID 0.
func (r *Registry) Resolve(path string) FileID {
	if path == "" {
		return 0
	}
	if id, ok := r.pathToID[path]; ok {
		return id
	}
	id := FileID(len(r.idToPath))
	r.idToPath = append(r.idToPath, path)
	r.pathToID[path] = id
	return id
}

// PathOf returns the path registered under id, or "" and false if id
// was never allocated by this registry.
func (r *Registry) PathOf(id FileID) (string, bool) {
	if int(id) >= len(r.idToPath) {
		return "", false
	}
	return r.idToPath[id], true
}

// Len returns the number of distinct paths registered, including the
// reserved empty path at id 0.
func (r *Registry) Len() int {
	return len(r.idToPath)
}
