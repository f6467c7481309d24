package paths

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	initMarker   = ".init_complete"
	defaultsFile = "defaults.txt"
)

// defaultSettings seeds defaults.txt on first run.
const defaultSettings = `default_project_name=New Project
default_manager=
default_reviewer=
default_approver=
default_division=D001
default_factory=F001
default_process=P001
default_line=L001
`

// seedKeys are created by Seed, in order.
var seedKeys = []string{
	UserDataDir, LogDir, TempDir, BackupDir,
	PMDataDir, MasterDir, ExportDir, TemplateDir,
	DBPath, OutputBaseDir,
}

// FirstRun reports whether the suite still needs seeding: the registry file,
// the init marker or defaults.txt is missing.
func (r *Registry) FirstRun(registryFile string) bool {
	if !exists(registryFile) {
		return true
	}
	dataDir, err := r.Resolve(UserDataDir)
	if err != nil {
		return true
	}
	return !exists(filepath.Join(dataDir, initMarker)) || !exists(filepath.Join(dataDir, defaultsFile))
}

// Seed creates the default directory tree, writes defaults.txt if absent and
// marks initialization complete. It is what the post-install init-data hook
// runs.
func (r *Registry) Seed() ([]string, error) {
	var created []string
	for _, key := range seedKeys {
		p, err := r.Ensure(key)
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", key, err)
		}
		created = append(created, p)
	}

	dataDir, err := r.Resolve(UserDataDir)
	if err != nil {
		return created, err
	}
	defaults := filepath.Join(dataDir, defaultsFile)
	if !exists(defaults) {
		if err := os.WriteFile(defaults, []byte(defaultSettings), 0o644); err != nil {
			return created, fmt.Errorf("write %s: %w", defaultsFile, err)
		}
		r.log.Info().Str("file", defaults).Msg("created default settings file")
	}
	if err := os.WriteFile(filepath.Join(dataDir, initMarker), nil, 0o644); err != nil {
		return created, fmt.Errorf("write init marker: %w", err)
	}
	return created, nil
}

// legacyKeys maps settings from the old key=value defaults file to registry keys.
var legacyKeys = map[string]string{
	"custom_projects_dir": OutputBaseDir,
}

// MigrateLegacy imports path settings from an old key=value file. It
// reports whether anything was registered. A missing file is not an error.
func (r *Registry) MigrateLegacy(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("open legacy settings: %w", err)
	}
	defer f.Close()

	migrated := false
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key, ok := legacyKeys[strings.TrimSpace(k)]
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		if err := r.Register(key, strings.TrimSpace(v)); err != nil {
			return migrated, err
		}
		migrated = true
	}
	if err := sc.Err(); err != nil {
		return migrated, fmt.Errorf("read legacy settings: %w", err)
	}
	if migrated {
		r.log.Info().Str("file", path).Msg("migrated legacy settings")
	}
	return migrated, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
