// Package paths maps logical path keys to filesystem locations.
//
// A Registry is built once at startup and passed to whatever needs a path.
// Keys either hold a registered path, fall back to a built-in default, or are
// aliases of another key. Alias chains are checked for cycles when an alias is
// added, so resolution always terminates.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
)

// Registry errors.
var (
	ErrEmptyKey      = errors.New("path key cannot be empty")
	ErrEmptyPath     = errors.New("path cannot be empty")
	ErrUnknownKey    = errors.New("unknown path key")
	ErrAliasCycle    = errors.New("alias would create a cycle")
	ErrAliasConflict = errors.New("alias key already has its own path")
)

// Kind says whether a key names a directory or a file.
type Kind int

const (
	KindDir Kind = iota
	KindFile
)

// Registry resolves path keys. It is not safe for concurrent mutation.
type Registry struct {
	home     string
	paths    map[string]string // canonical key -> absolute path
	aliases  map[string]string // alias -> target key
	defaults map[string]defaultPath
	log      zerolog.Logger
}

// New creates a registry seeded with the built-in defaults and aliases,
// rooted at home.
func New(home string, log zerolog.Logger) *Registry {
	r := &Registry{
		home:     home,
		paths:    make(map[string]string),
		aliases:  make(map[string]string),
		defaults: builtinDefaults(),
		log:      log.With().Str("component", "paths").Logger(),
	}
	for alias, target := range builtinAliases {
		r.aliases[alias] = target
	}
	return r
}

// Register binds key to path and adds aliases of key. Registering through
// an alias updates the alias's canonical entry. Nothing changes if any alias
// is rejected.
func (r *Registry) Register(key, path string, aliases ...string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if path == "" {
		return fmt.Errorf("%w: %s", ErrEmptyPath, key)
	}
	abs, err := r.normalize(path)
	if err != nil {
		return fmt.Errorf("normalize %s: %w", path, err)
	}

	canonical := r.terminal(key)
	for _, alias := range aliases {
		if err := r.checkAlias(alias, canonical); err != nil {
			return err
		}
	}

	r.paths[canonical] = abs
	for _, alias := range aliases {
		r.aliases[alias] = canonical
	}
	r.log.Debug().Str("key", canonical).Str("path", abs).Strs("aliases", aliases).Msg("registered path")
	return nil
}

// Alias makes alias resolve to target.
func (r *Registry) Alias(alias, target string) error {
	if err := r.checkAlias(alias, target); err != nil {
		return err
	}
	r.aliases[alias] = target
	return nil
}

func (r *Registry) checkAlias(alias, target string) error {
	if alias == "" || target == "" {
		return ErrEmptyKey
	}
	if _, ok := r.paths[alias]; ok {
		return fmt.Errorf("%w: %s", ErrAliasConflict, alias)
	}
	if _, ok := r.defaults[alias]; ok {
		return fmt.Errorf("%w: %s", ErrAliasConflict, alias)
	}
	// Walk from target; reaching alias means the new edge closes a loop.
	seen := map[string]bool{}
	for k := target; ; {
		if k == alias {
			return fmt.Errorf("%w: %s -> %s", ErrAliasCycle, alias, target)
		}
		if seen[k] {
			// Existing cycle; only possible through a corrupted load.
			return fmt.Errorf("%w: at %s", ErrAliasCycle, k)
		}
		seen[k] = true
		next, ok := r.aliases[k]
		if !ok {
			return nil
		}
		k = next
	}
}

// Canonical follows alias links from key to the key that owns a path or
// default.
func (r *Registry) Canonical(key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	k := r.terminal(key)
	if _, ok := r.paths[k]; ok {
		return k, nil
	}
	if _, ok := r.defaults[k]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// terminal follows alias links from key to the first key that is not an
// alias, whether or not it is known.
func (r *Registry) terminal(key string) string {
	k := key
	for i := 0; i <= len(r.aliases); i++ {
		next, ok := r.aliases[k]
		if !ok {
			break
		}
		k = next
	}
	return k
}

// Resolve returns the path for key, following aliases and applying the
// built-in default when nothing is registered.
func (r *Registry) Resolve(key string) (string, error) {
	canonical, err := r.Canonical(key)
	if err != nil {
		return "", err
	}
	return r.resolveCanonical(canonical, 0)
}

func (r *Registry) resolveCanonical(key string, depth int) (string, error) {
	if p, ok := r.paths[key]; ok {
		return p, nil
	}
	d, ok := r.defaults[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if d.base == "" {
		return filepath.Join(append([]string{r.home}, d.rel...)...), nil
	}
	if depth > len(r.defaults) {
		return "", fmt.Errorf("default chain too deep at %s", key)
	}
	base, err := r.Canonical(d.base)
	if err != nil {
		return "", err
	}
	basePath, err := r.resolveCanonical(base, depth+1)
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{basePath}, d.rel...)...), nil
}

// KindOf reports whether key names a directory or a file. Keys without a
// built-in default are directories.
func (r *Registry) KindOf(key string) Kind {
	canonical, err := r.Canonical(key)
	if err != nil {
		return KindDir
	}
	return r.defaults[canonical].kind
}

// Ensure resolves key and creates its directory (or, for file keys, the
// parent directory).
func (r *Registry) Ensure(key string) (string, error) {
	p, err := r.Resolve(key)
	if err != nil {
		return "", err
	}
	dir := p
	if r.KindOf(key) == KindFile {
		dir = filepath.Dir(p)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	r.log.Debug().Str("key", key).Str("path", dir).Msg("ensured directory")
	return p, nil
}

// Keys returns every canonical key, registered or defaulted, sorted.
func (r *Registry) Keys() []string {
	set := make(map[string]bool, len(r.paths)+len(r.defaults))
	for k := range r.paths {
		set[k] = true
	}
	for k := range r.defaults {
		set[k] = true
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Aliases returns a copy of the alias table.
func (r *Registry) Aliases() map[string]string {
	out := make(map[string]string, len(r.aliases))
	for k, v := range r.aliases {
		out[k] = v
	}
	return out
}

// Registered returns a copy of the explicitly registered paths.
func (r *Registry) Registered() map[string]string {
	out := make(map[string]string, len(r.paths))
	for k, v := range r.paths {
		out[k] = v
	}
	return out
}

// Snapshot resolves every canonical key.
func (r *Registry) Snapshot() map[string]string {
	out := make(map[string]string)
	for _, k := range r.Keys() {
		if p, err := r.Resolve(k); err == nil {
			out[k] = p
		}
	}
	return out
}

func (r *Registry) normalize(path string) (string, error) {
	if path == "~" || len(path) > 1 && path[0] == '~' && os.IsPathSeparator(path[1]) {
		path = filepath.Join(r.home, path[1:])
	}
	return filepath.Abs(path)
}
