package config

import "fmt"

// migrations maps a config version to the function that upgrades a
// config from that version to the next one.
var migrations = map[int]func(*Config) error{
	1: migrateV1ToV2,
}

// migrate upgrades a config to the current version, applying each
// migration step in order.
func migrate(cfg *Config) error {
	if cfg.Version > CurrentVersion {
		return fmt.Errorf("%w: version %d is newer than supported version %d", ErrInvalid, cfg.Version, CurrentVersion)
	}
	for cfg.Version < CurrentVersion {
		step, ok := migrations[cfg.Version]
		if !ok {
			return fmt.Errorf("%w: no migration from version %d", ErrInvalid, cfg.Version)
		}
		if err := step(cfg); err != nil {
			return fmt.Errorf("migrating config from version %d: %w", cfg.Version, err)
		}
		cfg.Version++
	}
	return nil
}

// migrateV1ToV2 introduces the covers section and the defaults block.
// Version 1 configs carried only db_file and a flat default_priority
// that yaml leaves empty here, so missing values get their defaults.
func migrateV1ToV2(cfg *Config) error {
	if cfg.DBFile == "" {
		cfg.DBFile = DefaultDBFile
	}
	if cfg.Defaults.Priority == "" {
		cfg.Defaults.Priority = DefaultPriority
	}
	cfg.Covers.Enabled = true
	return nil
}
