// Package assocconfig loads YAML-described association groups and
// compiles them into assoc.Group values, extending the built-in
// firefox/vlc/thunar table without a rebuild (SPEC_FULL's domain-stack
// answer to original_source/src/common.c's
// "//TODO generic app-group-list, initialised from /etc/firejail/*profiles").
package assocconfig

import (
	"fmt"
	"os"

	"github.com/firejail/execfilter/internal/policy/assoc"
	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// fileModel mirrors the on-disk YAML shape.
type fileModel struct {
	Groups []groupModel `yaml:"groups"`
}

type groupModel struct {
	MainKey  string   `yaml:"main_key"`
	Members  []string `yaml:"members"`
	Patterns []string `yaml:"patterns"`
}

// Load reads a YAML association-group file and returns the compiled
// groups. An empty or absent Patterns list is fine; Members alone is a
// valid group, matching the built-in table's shape.
func Load(path string) ([]assoc.Group, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("assocconfig: read %q: %w", path, err)
	}
	return Parse(data)
}

// Parse compiles raw YAML contents into association groups, validating
// that every group names a main key and that every pattern compiles.
func Parse(data []byte) ([]assoc.Group, error) {
	var doc fileModel
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("assocconfig: parse: %w", err)
	}

	groups := make([]assoc.Group, 0, len(doc.Groups))
	for _, gm := range doc.Groups {
		if gm.MainKey == "" {
			return nil, fmt.Errorf("assocconfig: group with no main_key")
		}
		compiled := make([]glob.Glob, 0, len(gm.Patterns))
		for _, pat := range gm.Patterns {
			g, err := glob.Compile(pat, '/')
			if err != nil {
				return nil, fmt.Errorf("assocconfig: group %q: compile pattern %q: %w", gm.MainKey, pat, err)
			}
			compiled = append(compiled, g)
		}
		groups = append(groups, assoc.Group{
			MainKey:  gm.MainKey,
			Members:  gm.Members,
			Patterns: compiled,
		})
	}
	return groups, nil
}

// Validate is a thin wrapper over Load used by `execfilterctl policy
// validate` and the fsnotify-driven watcher: it reports a parse error
// without returning the compiled groups to the caller.
func Validate(path string) error {
	_, err := Load(path)
	return err
}
