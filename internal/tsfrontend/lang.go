// Adapted from phobologic-repoguide's internal/lang package: a small
// registry mapping file extensions to a tree-sitter grammar. This
// indexer only ever needs two grammars, so the registry is a flat map
// rather than repoguide's per-language init()-file layout.
package tsfrontend

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
)

type language struct {
	name string
	grammar *sitter.Language
}

var languages = map[string]*language{
	"c":   {name: "c", grammar: c.GetLanguage()},
	"cpp": {name: "cpp", grammar: cpp.GetLanguage()},
}

var extensionToLanguage = map[string]string{
	".c":   "c",
	".h":   "cpp",
	".cc":  "cpp",
	".cpp": "cpp",
	".cxx": "cpp",
	".c++": "cpp",
	".hh":  "cpp",
	".hpp": "cpp",
	".hxx": "cpp",
}

// languageForPath picks a grammar by extension, defaulting to C++ for
// unrecognized or header-ambiguous extensions (ccls itself treats
// ".h" as whichever language the owning compile command says; absent
// that context here, C++ is the superset grammar).
func languageForPath(path string) *language {
	ext := strings.ToLower(filepath.Ext(path))
	name, ok := extensionToLanguage[ext]
	if !ok {
		name = "cpp"
	}
	return languages[name]
}

func (l *language) newParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.grammar)
	return p
}
