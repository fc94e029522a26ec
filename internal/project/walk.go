// Adapted from phobologic-repoguide's internal/discover package: a
// filepath.WalkDir over the project root that skips VCS/build
// directories outright and consults a compiled .gitignore for
// everything else, rather than shelling out to `git ls-files` (ccls
// indexes arbitrary checkouts, not only git ones, so the git-ls-files
// fast path the teacher package prefers is dropped; the .gitignore
// fallback is kept as the only strategy).
package project

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

var skipDirs = map[string]struct{}{
	"__pycache__": {},
	"node_modules": {},
	".git":        {},
	".hg":         {},
	".svn":        {},
	"build":       {},
	"dist":        {},
	"cmake-build-debug": {},
	"cmake-build-release": {},
}

var sourceExtensions = map[string]struct{}{
	".c": {}, ".h": {},
	".cc": {}, ".cpp": {}, ".cxx": {}, ".c++": {},
	".hh": {}, ".hpp": {}, ".hxx": {},
}

// TranslationUnit pairs a discovered source file's path (root joined
// with its project-relative path) with the compile args Config says
// apply to it.
type TranslationUnit struct {
	Path string
	Args []string
}

// Discover walks root, returning every C/C++ source file not excluded
// by skipDirs or the project's .gitignore, each paired with its
// resolved compile args. Headers (.h/.hpp/...) are included so they
// can be indexed as standalone translation units, matching ccls's own
// treatment of headers without an associated compile command.
func Discover(root string, cfg *Config) ([]TranslationUnit, error) {
	gi := loadGitignore(root)

	var units []TranslationUnit
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name := d.Name()

		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		if _, ok := sourceExtensions[extOf(name)]; !ok {
			return nil
		}

		units = append(units, TranslationUnit{Path: path, Args: cfg.ArgsFor(path)})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(units, func(i, j int) bool { return units[i].Path < units[j].Path })
	return units, nil
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
