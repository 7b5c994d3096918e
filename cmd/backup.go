package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tasker-cli/tasker/internal/backup"
	"github.com/tasker-cli/tasker/internal/filelock"
	"github.com/tasker-cli/tasker/internal/output"
	"github.com/tasker-cli/tasker/internal/store"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export or import the full task store",
}

var backupExportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Export all tasks and subtasks as JSON",
	Long:  `Writes the backup document to FILE, or to stdout when no file is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBackupExport,
}

var backupImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace the task store from a backup",
	Long: `Validates the backup document and replaces all tasks and subtasks in one
transaction. On any validation or integrity failure the existing data is
left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runBackupImport,
}

func init() {
	backupImportCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	backupCmd.AddCommand(backupExportCmd)
	backupCmd.AddCommand(backupImportCmd)
	rootCmd.AddCommand(backupCmd)
}

func runBackupExport(_ *cobra.Command, args []string) error {
	cfg, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	tasks, err := st.Tasks(store.Filter{})
	if err != nil {
		return err
	}
	subtasks, err := st.AllSubtasks()
	if err != nil {
		return err
	}

	out := os.Stdout
	toFile := len(args) == 1
	if toFile {
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("creating backup file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := backup.Export(out, tasks, subtasks, time.Now()); err != nil {
		return err
	}
	logActivity(cfg, "export", 0, fmt.Sprintf("%d tasks", len(tasks)))

	if toFile {
		output.Messagef(os.Stderr, "Exported %d tasks and %d subtasks to %s",
			len(tasks), len(subtasks), args[0])
	}
	return nil
}

func runBackupImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening backup file: %w", err)
	}
	defer f.Close()

	doc, err := backup.Import(f)
	if err != nil {
		return err
	}

	cfg, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		prompt := fmt.Sprintf("Replace ALL data with backup from %s (%d tasks, %d subtasks)",
			doc.ExportedAt, len(doc.Tasks), len(doc.Subtasks))
		ok, err := confirm(prompt)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
	}

	// The lock serializes destructive restores across CLI invocations.
	unlock, err := filelock.Lock(filepath.Join(cfg.Dir(), ".import.lock"))
	if err != nil {
		return fmt.Errorf("acquiring import lock: %w", err)
	}
	defer func() { _ = unlock() }()

	if err := st.Restore(doc.Tasks, doc.Subtasks); err != nil {
		return err
	}
	logActivity(cfg, "import", 0, fmt.Sprintf("%d tasks", len(doc.Tasks)))

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status":   "imported",
			"tasks":    len(doc.Tasks),
			"subtasks": len(doc.Subtasks),
		})
	}
	output.Messagef(os.Stdout, "Imported %d tasks and %d subtasks", len(doc.Tasks), len(doc.Subtasks))
	return nil
}
