package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fentz26/projsuite/internal/audit"
	"github.com/fentz26/projsuite/internal/config"
	"github.com/fentz26/projsuite/internal/export"
	"github.com/fentz26/projsuite/internal/logging"
	"github.com/fentz26/projsuite/internal/models"
	"github.com/fentz26/projsuite/internal/paths"
	"github.com/fentz26/projsuite/internal/store"
	"github.com/fentz26/projsuite/internal/taskio"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// registryFileName is the registry file inside USER_DATA_DIR.
const registryFileName = "path_registry.yaml"

// appEnv is what every command runs against.
type appEnv struct {
	cfg     *config.Config
	log     zerolog.Logger
	reg     *paths.Registry
	regFile string
}

var env *appEnv

func setup(cmd *cobra.Command) error {
	cfgFile := configPath
	if cfgFile == "" {
		cfgFile = config.DefaultPath()
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	log := logging.NewConsole(level)

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("find home directory: %w", err)
	}
	reg := paths.New(home, log)

	regFile := registryFile
	if regFile == "" {
		regFile = cfg.Registry.File
	}
	if regFile == "" {
		data, err := reg.Resolve(paths.UserDataDir)
		if err != nil {
			return err
		}
		regFile = filepath.Join(data, registryFileName)
	}
	if err := reg.Load(regFile); err != nil {
		return fmt.Errorf("load path registry: %w", err)
	}

	env = &appEnv{cfg: cfg, log: log, reg: reg, regFile: regFile}

	if cmd.Name() != initDataCmd.Name() && reg.FirstRun(regFile) {
		log.Info().Msg("first run detected, run 'projsuite init-data' to create the data directories")
	}
	return nil
}

// openStore opens the database at DB_PATH.
func openStore() (*store.Store, error) {
	dbPath, err := env.reg.Ensure(paths.DBPath)
	if err != nil {
		return nil, err
	}
	return store.New(dbPath)
}

// openStoreOptional opens the database for operation records. Commands keep
// working without it.
func openStoreOptional() *store.Store {
	st, err := openStore()
	if err != nil {
		env.log.Warn().Err(err).Msg("database unavailable, operation will not be recorded")
		return nil
	}
	return st
}

func closeStore(st *store.Store) {
	if st != nil {
		st.Close()
	}
}

// record writes an operation entry for a finished command.
func record(st *store.Store, action string, inputs interface{}, projectID, details string, opErr error) {
	var w audit.OperationWriter
	if st != nil {
		w = st
	}
	if opErr != nil {
		details = opErr.Error()
	}
	audit.NewRecorder(w, env.log).Record(action, inputs, audit.Outcome(opErr), projectID, details)
}

// loadTasks reads an input table, picking the reader from the extension.
func loadTasks(path string) ([]models.Task, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		records, err := taskio.ReadCSVFile(path)
		if err != nil {
			return nil, err
		}
		return taskio.Tasks(records), nil
	}
	return taskio.ReadWorkbook(path, taskio.WorkbookOptions{
		Sheet:        env.cfg.Gantt.InputSheet,
		StatusHeader: env.cfg.Gantt.StatusHeader,
	})
}

// projectName derives a project name from a source file: the part after the
// last underscore, or the whole base name when there is none.
func projectName(path string) string {
	if name := export.ProjectNameFromFile(path); name != "" {
		return name
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func saveRegistry() error {
	if err := env.reg.Save(env.regFile); err != nil {
		return fmt.Errorf("save path registry: %w", err)
	}
	return nil
}
