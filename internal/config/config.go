package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/tasker-cli/tasker/internal/task"
)

const fileMode = 0o600

// Sentinel errors.
var (
	ErrNotFound = errors.New("no tasker directory found (run 'tasker init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the tasker application configuration.
type Config struct {
	Version  int            `yaml:"version"`
	DBFile   string         `yaml:"db_file"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Covers   CoversConfig   `yaml:"covers,omitempty"`

	// dir is the absolute path to the tasker directory (not serialized).
	dir string
}

// DefaultsConfig holds default values for new tasks.
type DefaultsConfig struct {
	Priority string `yaml:"priority"`
	Category string `yaml:"category,omitempty"`
}

// CoversConfig controls cover-art lookups for media tasks.
type CoversConfig struct {
	Enabled bool   `yaml:"enabled"`
	OMDBKey string `yaml:"omdb_api_key,omitempty"`
}

// NewDefault creates a Config with default values.
func NewDefault() *Config {
	return &Config{
		Version: CurrentVersion,
		DBFile:  DefaultDBFile,
		Defaults: DefaultsConfig{
			Priority: DefaultPriority,
		},
		Covers: CoversConfig{Enabled: true},
	}
}

// Dir returns the absolute path to the tasker directory.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the tasker directory path on the config.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// DBPath returns the absolute path to the SQLite database file.
func (c *Config) DBPath() string {
	return filepath.Join(c.dir, c.DBFile)
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// DefaultPriorityLevel returns the configured default priority as a
// task.Priority, falling back to medium for unknown names.
func (c *Config) DefaultPriorityLevel() task.Priority {
	if p, ok := task.ParsePriority(c.Defaults.Priority); ok {
		return p
	}
	return task.PriorityMedium
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.DBFile == "" {
		return fmt.Errorf("%w: db_file is required", ErrInvalid)
	}
	if _, ok := task.ParsePriority(c.Defaults.Priority); !ok {
		return fmt.Errorf("%w: unknown default priority %q", ErrInvalid, c.Defaults.Priority)
	}
	if c.Defaults.Category != "" {
		if err := task.ValidateCategory(task.Category(c.Defaults.Category)); err != nil {
			return fmt.Errorf("%w: unknown default category %q", ErrInvalid, c.Defaults.Category)
		}
	}
	return nil
}

// Init creates a new tasker directory with a default config file.
func Init(dir string) (*Config, error) {
	const dirMode = 0o750

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault()
	cfg.SetDir(absDir)

	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return nil, fmt.Errorf("creating tasker directory: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads and validates a config from the given tasker directory.
// Old config versions are migrated forward and persisted so future
// loads skip re-migration.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
