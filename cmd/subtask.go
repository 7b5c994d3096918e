package cmd

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tasker-cli/tasker/internal/output"
	"github.com/tasker-cli/tasker/internal/task"
)

var subtaskCmd = &cobra.Command{
	Use:     "subtask",
	Aliases: []string{"sub"},
	Short:   "Manage subtasks of a task",
}

var subtaskAddCmd = &cobra.Command{
	Use:   "add ID TITLE",
	Short: "Add a subtask to a task",
	Args:  cobra.ExactArgs(2), //nolint:mnd // task ID and title
	RunE:  runSubtaskAdd,
}

var subtaskDoneCmd = &cobra.Command{
	Use:   "done SID",
	Short: "Mark a subtask completed",
	Args:  cobra.ExactArgs(1),
	RunE:  func(_ *cobra.Command, args []string) error { return setSubtaskState(args[0], true) },
}

var subtaskUndoneCmd = &cobra.Command{
	Use:   "undone SID",
	Short: "Mark a subtask not completed",
	Args:  cobra.ExactArgs(1),
	RunE:  func(_ *cobra.Command, args []string) error { return setSubtaskState(args[0], false) },
}

var subtaskListCmd = &cobra.Command{
	Use:   "list ID",
	Short: "List subtasks of a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubtaskList,
}

func init() {
	subtaskCmd.AddCommand(subtaskAddCmd)
	subtaskCmd.AddCommand(subtaskDoneCmd)
	subtaskCmd.AddCommand(subtaskUndoneCmd)
	subtaskCmd.AddCommand(subtaskListCmd)
	rootCmd.AddCommand(subtaskCmd)
}

func runSubtaskAdd(_ *cobra.Command, args []string) error {
	taskID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return task.ValidateTaskID(args[0])
	}

	cfg, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.AddSubtask(taskID, args[1])
	if err != nil {
		return err
	}
	logActivity(cfg, "subtask-add", taskID, args[1])

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"id":      id,
			"task_id": taskID,
			"title":   args[1],
		})
	}
	output.Messagef(os.Stdout, "Added subtask #%d to task #%d: %s", id, taskID, args[1])
	return nil
}

func setSubtaskState(arg string, completed bool) error {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return task.ValidateTaskID(arg)
	}

	cfg, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SetSubtaskCompleted(id, completed); err != nil {
		return err
	}
	action := "subtask-done"
	label := "done"
	if !completed {
		action = "subtask-undone"
		label = "not done"
	}
	logActivity(cfg, action, id, "")

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"id":        id,
			"completed": completed,
		})
	}
	output.Messagef(os.Stdout, "Marked subtask #%d %s", id, label)
	return nil
}

func runSubtaskList(_ *cobra.Command, args []string) error {
	taskID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return task.ValidateTaskID(args[0])
	}

	_, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	// Surface TASK_NOT_FOUND for a missing parent rather than an empty list.
	if _, err := st.GetTask(taskID); err != nil {
		return err
	}

	subtasks, err := st.Subtasks(taskID)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, subtasks)
	}
	if len(subtasks) == 0 {
		output.Messagef(os.Stderr, "No subtasks for task #%d.", taskID)
		return nil
	}
	for _, s := range subtasks {
		box := "[ ]"
		if s.Completed {
			box = "[x]"
		}
		output.Messagef(os.Stdout, "%s #%d %s", box, s.ID, s.Title)
	}
	return nil
}
