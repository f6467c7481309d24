package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// Problem describes a key whose target is missing or unusable.
type Problem struct {
	Key      string
	Path     string
	Err      error
	Repaired bool
}

func (p Problem) String() string {
	state := "missing"
	if p.Repaired {
		state = "repaired"
	}
	return fmt.Sprintf("%s (%s): %s: %v", p.Key, p.Path, state, p.Err)
}

// Diagnose checks every canonical key. Directory keys must exist and be
// directories; file keys need an existing parent directory. With repair set,
// missing directories are recreated.
func (r *Registry) Diagnose(repair bool) []Problem {
	var problems []Problem
	for _, key := range r.Keys() {
		p, err := r.Resolve(key)
		if err != nil {
			problems = append(problems, Problem{Key: key, Err: err})
			continue
		}
		dir := p
		if r.KindOf(key) == KindFile {
			dir = filepath.Dir(p)
		}
		err = checkDir(dir)
		if err == nil {
			continue
		}
		prob := Problem{Key: key, Path: p, Err: err}
		if repair && os.IsNotExist(err) {
			if _, ensureErr := r.Ensure(key); ensureErr == nil {
				prob.Repaired = true
				r.log.Info().Str("key", key).Str("path", dir).Msg("recreated missing directory")
			} else {
				prob.Err = ensureErr
			}
		}
		if !prob.Repaired {
			r.log.Warn().Str("key", key).Str("path", dir).Err(prob.Err).Msg("path unavailable")
		}
		problems = append(problems, prob)
	}
	return problems
}

func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	return f.Close()
}
