package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/tasker-cli/tasker/internal/output"
	"github.com/tasker-cli/tasker/internal/task"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show task details",
	Long:  `Displays full details of a single task including subtasks and its markdown description.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return task.ValidateTaskID(args[0])
	}

	_, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	t, err := st.GetTask(id)
	if err != nil {
		return err
	}
	subtasks, err := st.Subtasks(id)
	if err != nil {
		return err
	}

	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"task":     t,
			"subtasks": subtasks,
		})
	}
	if format == output.FormatCompact {
		output.TaskDetailCompact(os.Stdout, t, subtasks)
		return nil
	}

	output.TaskDetail(os.Stdout, t, subtasks)
	if t.Description != "" {
		fmt.Fprintln(os.Stdout)
		fmt.Fprint(os.Stdout, renderDescription(t.Description))
	}
	return nil
}

// renderDescription renders the markdown description for the terminal,
// falling back to the raw text when rendering fails.
func renderDescription(desc string) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80)) //nolint:mnd // render width
	if err != nil {
		return desc + "\n"
	}
	rendered, err := r.Render(desc)
	if err != nil {
		return desc + "\n"
	}
	return rendered
}
