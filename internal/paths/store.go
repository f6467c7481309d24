package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// fileFormat is the on-disk layout of the registry file.
type fileFormat struct {
	Paths       map[string]string `yaml:"paths"`
	Aliases     map[string]string `yaml:"aliases,omitempty"`
	LastUpdated time.Time         `yaml:"last_updated"`
}

// Load merges a registry file into r. A missing file is not an error.
// Entries go through Register and Alias, so a file with an alias cycle is
// rejected and r is left unchanged.
func (r *Registry) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading registry file: %w", err)
	}

	var ff fileFormat
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return fmt.Errorf("parsing registry file: %w", err)
	}

	// A key cannot be both an alias and a registered path.
	for _, k := range sortedKeys(ff.Aliases) {
		if _, ok := ff.Paths[k]; ok {
			return fmt.Errorf("registry file %s: %w: %s", path, ErrAliasConflict, k)
		}
	}

	staged := r.clone()
	for _, k := range sortedKeys(ff.Aliases) {
		if err := staged.Alias(k, ff.Aliases[k]); err != nil {
			return fmt.Errorf("registry file %s: %w", path, err)
		}
	}
	for _, k := range sortedKeys(ff.Paths) {
		if err := staged.Register(k, ff.Paths[k]); err != nil {
			return fmt.Errorf("registry file %s: %w", path, err)
		}
	}

	r.paths, r.aliases = staged.paths, staged.aliases
	r.log.Debug().Int("paths", len(ff.Paths)).Str("file", path).Msg("loaded path registry")
	return nil
}

// Save writes the registered paths and non-builtin aliases to path.
func (r *Registry) Save(path string) error {
	ff := fileFormat{
		Paths:       r.Registered(),
		Aliases:     make(map[string]string),
		LastUpdated: time.Now().UTC(),
	}
	for alias, target := range r.aliases {
		if builtinAliases[alias] != target {
			ff.Aliases[alias] = target
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating registry dir: %w", err)
	}
	data, err := yaml.Marshal(&ff)
	if err != nil {
		return fmt.Errorf("marshaling registry: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing registry file: %w", err)
	}
	r.log.Debug().Int("paths", len(ff.Paths)).Str("file", path).Msg("saved path registry")
	return nil
}

func (r *Registry) clone() *Registry {
	c := *r
	c.paths = r.Registered()
	c.aliases = r.Aliases()
	return &c
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
