// Adapted from the teacher's internal/index/helper.go: convertRange
// translated one coordinate system (SemanticDB ranges) into another
// (LSIF positions). normalizePath plays the same "translate an
// external coordinate into our canonical one" role for file paths: the
// frontend may report the same file under several spellings (relative,
// ./-prefixed, symlinked); every Location in an IndexedFile must key
// off one canonical spelling or invariant 1 (injective interning)
// breaks for file ids too.
package ccindex

import "path/filepath"

// normalizePath cleans path into the canonical form the file registry
// keys locations against. Empty stays empty (fileset.Registry's
// reserved "no file" id).
func normalizePath(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Clean(path)
}
