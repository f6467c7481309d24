// Package config loads the projsuite configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fentz26/projsuite/internal/gantt"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
	Registry RegistryConfig `yaml:"registry" mapstructure:"registry"`
	Gantt    GanttConfig    `yaml:"gantt" mapstructure:"gantt"`
	Export   ExportConfig   `yaml:"export" mapstructure:"export"`
}

// LogConfig controls logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" mapstructure:"level"`
}

// RegistryConfig locates the path registry file.
type RegistryConfig struct {
	// File is the path registry file. Empty means the default under the
	// user data directory.
	File string `yaml:"file" mapstructure:"file"`
}

// GanttConfig controls chart input and output.
type GanttConfig struct {
	InputSheet   string        `yaml:"input_sheet" mapstructure:"input_sheet"`
	ChartSheet   string        `yaml:"chart_sheet" mapstructure:"chart_sheet"`
	StatusHeader string        `yaml:"status_header" mapstructure:"status_header"`
	Colors       gantt.Palette `yaml:"colors" mapstructure:"colors"`
}

// ExportConfig controls the CSV exporter.
type ExportConfig struct {
	StripCommas bool `yaml:"strip_commas" mapstructure:"strip_commas"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Gantt: GanttConfig{
			InputSheet:   "Tasks",
			ChartSheet:   "Gantt",
			StatusHeader: "Status",
			Colors:       gantt.DefaultPalette(),
		},
		Export: ExportConfig{StripCommas: true},
	}
}

// EnvPrefix prefixes environment overrides, e.g. PROJSUITE_LOG_LEVEL.
const EnvPrefix = "PROJSUITE"

// DefaultPath returns ~/.projsuite/config.yaml.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".projsuite", "config.yaml")
}

// Load reads path over the defaults and applies PROJSUITE_* environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, cfg)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("registry.file", cfg.Registry.File)
	v.SetDefault("gantt.input_sheet", cfg.Gantt.InputSheet)
	v.SetDefault("gantt.chart_sheet", cfg.Gantt.ChartSheet)
	v.SetDefault("gantt.status_header", cfg.Gantt.StatusHeader)
	c := cfg.Gantt.Colors
	v.SetDefault("gantt.colors.sunday", c.Sunday)
	v.SetDefault("gantt.colors.saturday", c.Saturday)
	v.SetDefault("gantt.colors.past_due", c.PastDue)
	v.SetDefault("gantt.colors.on_track", c.OnTrack)
	v.SetDefault("gantt.colors.overdue", c.Overdue)
	v.SetDefault("gantt.colors.completed", c.Completed)
	v.SetDefault("gantt.colors.today", c.Today)
	v.SetDefault("export.strip_commas", cfg.Export.StripCommas)
}

// Save writes cfg to path, creating parent directories if needed.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

var hexColor = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q, must be: debug, info, warn, or error", c.Log.Level)
	}
	if c.Gantt.InputSheet == "" || c.Gantt.ChartSheet == "" {
		return fmt.Errorf("gantt sheet names cannot be empty")
	}
	if c.Gantt.StatusHeader == "" {
		return fmt.Errorf("gantt.status_header cannot be empty")
	}
	p := c.Gantt.Colors
	for name, v := range map[string]string{
		"sunday": p.Sunday, "saturday": p.Saturday, "past_due": p.PastDue,
		"on_track": p.OnTrack, "overdue": p.Overdue, "completed": p.Completed, "today": p.Today,
	} {
		if !hexColor.MatchString(v) {
			return fmt.Errorf("gantt.colors.%s: %q is not an RRGGBB color", name, v)
		}
	}
	return nil
}
