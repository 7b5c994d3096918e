package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tasker-cli/tasker/internal/output"
	"github.com/tasker-cli/tasker/internal/store"
	"github.com/tasker-cli/tasker/internal/task"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long:    `Lists tasks with optional filtering, sorting, and output format control.`,
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringP("category", "c", "", "filter by category")
	listCmd.Flags().String("project", "", "filter by project")
	listCmd.Flags().String("area", "", "filter by area")
	listCmd.Flags().String("resource", "", "filter by resource")
	listCmd.Flags().StringP("search", "s", "", "search tasks by any text field (case-insensitive)")
	listCmd.Flags().Bool("done", false, "show only completed tasks")
	listCmd.Flags().Bool("open", false, "show only open tasks")
	listCmd.Flags().Bool("due", false, "sort by due date (earliest first, undated last)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	_, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	filter, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}

	tasks, err := st.Tasks(filter)
	if err != nil {
		return err
	}

	return outputTaskList(tasks)
}

func filterFromFlags(cmd *cobra.Command) (store.Filter, error) {
	var f store.Filter

	if cat, _ := cmd.Flags().GetString("category"); cat != "" {
		parsed, ok := task.ParseCategory(cat)
		if !ok {
			return f, task.ValidateCategory(task.Category(cat))
		}
		f.Category = parsed
	}
	f.Project, _ = cmd.Flags().GetString("project")
	f.Area, _ = cmd.Flags().GetString("area")
	f.Resource, _ = cmd.Flags().GetString("resource")
	f.Search, _ = cmd.Flags().GetString("search")
	f.SortByDue, _ = cmd.Flags().GetBool("due")

	done, _ := cmd.Flags().GetBool("done")
	open, _ := cmd.Flags().GetBool("open")
	switch {
	case done && !open:
		v := true
		f.Completed = &v
	case open && !done:
		v := false
		f.Completed = &v
	}

	return f, nil
}

func outputTaskList(tasks []*task.Task) error {
	format := outputFormat()
	if format == output.FormatJSON {
		if tasks == nil {
			tasks = []*task.Task{}
		}
		return output.JSON(os.Stdout, tasks)
	}
	if format == output.FormatCompact {
		output.TaskCompact(os.Stdout, tasks)
		return nil
	}

	output.TaskTable(os.Stdout, tasks)
	return nil
}
