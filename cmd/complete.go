package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tasker-cli/tasker/internal/output"
)

var completeCmd = &cobra.Command{
	Use:     "complete ID[,ID,...]",
	Aliases: []string{"done"},
	Short:   "Mark tasks completed",
	Long: `Marks one or more tasks completed. Completing an already-completed task
is a no-op. Multiple IDs can be provided as a comma-separated list.`,
	Args: cobra.ExactArgs(1),
	RunE: runComplete,
}

func init() {
	rootCmd.AddCommand(completeCmd)
}

func runComplete(_ *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}

	cfg, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if len(ids) == 1 {
		id := ids[0]
		if err := st.CompleteTask(id); err != nil {
			return err
		}
		logActivity(cfg, "complete", id, "")

		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, map[string]any{
				"status": "completed",
				"id":     id,
			})
		}
		output.Messagef(os.Stdout, "Completed task #%d", id)
		return nil
	}

	return runBatch(ids, func(id int64) error {
		if err := st.CompleteTask(id); err != nil {
			return err
		}
		logActivity(cfg, "complete", id, "")
		return nil
	})
}
