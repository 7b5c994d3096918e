package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tasker-cli/tasker/internal/output"
	"github.com/tasker-cli/tasker/internal/query"
	"github.com/tasker-cli/tasker/internal/store"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show the due-date timeline",
	Long:  `Lists every task with a due date in ascending order, completed tasks included.`,
	RunE:  runTimeline,
}

func init() {
	rootCmd.AddCommand(timelineCmd)
}

func runTimeline(_ *cobra.Command, _ []string) error {
	_, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	tasks, err := st.Tasks(store.Filter{})
	if err != nil {
		return err
	}
	rows := query.Timeline(tasks)

	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, rows)
	}
	if format == output.FormatCompact {
		output.TimelineCompact(os.Stdout, rows)
		return nil
	}

	output.TimelineTable(os.Stdout, rows)
	return nil
}
