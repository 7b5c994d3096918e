package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tasker-cli/tasker/internal/clierr"
	"github.com/tasker-cli/tasker/internal/config"
	"github.com/tasker-cli/tasker/internal/output"
	"github.com/tasker-cli/tasker/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new task store",
	Long:  `Creates a tasker directory with config.yml and the SQLite database.`,
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	dir := flagDir
	if dir == "" {
		home, err := defaultHomeDir()
		if err != nil {
			return err
		}
		dir = home
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	// Check if already initialized.
	if _, err := os.Stat(filepath.Join(absDir, config.ConfigFileName)); err == nil {
		return clierr.Newf(clierr.StoreExists, "task store already initialized in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}

	cfg, err := config.Init(absDir)
	if err != nil {
		return err
	}

	// Create the database with its schema.
	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return err
	}
	if err := st.Close(); err != nil {
		return err
	}

	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"status":   "initialized",
			"dir":      absDir,
			"config":   cfg.ConfigPath(),
			"database": cfg.DBPath(),
		})
	}

	output.Messagef(os.Stdout, "Initialized task store in %s", absDir)
	output.Messagef(os.Stdout, "  Config:   %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Database: %s", cfg.DBPath())
	return nil
}
