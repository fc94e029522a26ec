// Adapted from vovakirdan-surge's cmd/surge/project_manifest.go: a
// TOML manifest with a required top-level table and required keys
// inside it, validated via toml.MetaData.IsDefined rather than
// post-hoc nil checks. Config plays the same role for a multi-file C/
// C++ project: which extensions map to which compile args, and which
// directories to skip outright.
package project

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk project manifest, conventionally named
// ccls-project.toml at the project root.
type Config struct {
	Compile CompileConfig `toml:"compile"`
}

// CompileConfig maps file extensions to the compile arguments passed
// to the frontend for files of that extension (spec.md §6: "a
// translation unit's inputs are a source file and its compile args").
type CompileConfig struct {
	Default   []string            `toml:"default_args"`
	ByExt     map[string][]string `toml:"args"`
	ExtraInclude []string         `toml:"include_dirs"`
}

// Load parses the manifest at path. A missing [compile] table is not
// an error: Default/ByExt/ExtraInclude are all optional and fall back
// to empty.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return &cfg, nil
}

// ArgsFor returns the compile args for a file: Default, followed by
// the args listed for the file's extension (if any), followed by one
// -I flag per ExtraInclude directory.
func (c *Config) ArgsFor(path string) []string {
	if c == nil {
		return nil
	}
	ext := extOf(path)
	args := append([]string{}, c.Compile.Default...)
	if specific, ok := c.Compile.ByExt[ext]; ok {
		args = append(args, specific...)
	}
	for _, dir := range c.Compile.ExtraInclude {
		args = append(args, "-I"+dir)
	}
	return args
}

func extOf(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(path[i:])
}
