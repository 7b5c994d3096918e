package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasker-cli/tasker/internal/task"
)

func TestInitAndLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Init(dir)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, DefaultDBFile, cfg.DBFile)
	assert.FileExists(t, filepath.Join(dir, ConfigFileName))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg.Version, loaded.Version)
	assert.Equal(t, cfg.DBFile, loaded.DBFile)
	assert.Equal(t, DefaultPriority, loaded.Defaults.Priority)
	assert.True(t, loaded.Covers.Enabled)
	assert.Equal(t, filepath.Join(loaded.Dir(), DefaultDBFile), loaded.DBPath())
}

func TestLoadMissingDir(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "version: [not a number\n")

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoadMigratesV1(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "version: 1\ndb_file: old.db\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, "old.db", cfg.DBFile)
	assert.Equal(t, DefaultPriority, cfg.Defaults.Priority)
	assert.True(t, cfg.Covers.Enabled)

	// Migration is persisted.
	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "version: 2")
}

func TestLoadFutureVersion(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "version: 99\ndb_file: tasker.db\n")

	_, err := Load(dir)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	cfg := NewDefault()
	require.NoError(t, cfg.Validate())

	cfg.DBFile = ""
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)

	cfg = NewDefault()
	cfg.Defaults.Priority = "urgent"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)

	cfg = NewDefault()
	cfg.Defaults.Category = "Chores"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)

	cfg = NewDefault()
	cfg.Defaults.Category = "Work"
	assert.NoError(t, cfg.Validate())
}

func TestDefaultPriorityLevel(t *testing.T) {
	cfg := NewDefault()
	assert.Equal(t, task.PriorityMedium, cfg.DefaultPriorityLevel())

	cfg.Defaults.Priority = "high"
	assert.Equal(t, task.PriorityHigh, cfg.DefaultPriorityLevel())
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o600))
}
