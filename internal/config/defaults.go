// Package config handles the tasker application configuration.
package config

const (
	// ConfigFileName is the name of the config file within the tasker directory.
	ConfigFileName = "config.yml"

	// DefaultDBFile is the default SQLite database filename.
	DefaultDBFile = "tasker.db"

	// DefaultPriority is the default priority name for new tasks.
	DefaultPriority = "medium"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 2
)
