package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tasker-cli/tasker/internal/clierr"
	"github.com/tasker-cli/tasker/internal/config"
	"github.com/tasker-cli/tasker/internal/output"
	"github.com/tasker-cli/tasker/internal/store"
)

var deleteCmd = &cobra.Command{
	Use:     "delete ID[,ID,...]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Deletes a task and all of its subtasks. Prompts for confirmation in
interactive mode. Multiple IDs can be provided as a comma-separated list
(requires --yes).`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}

	cfg, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	yes, _ := cmd.Flags().GetBool("yes")

	// Batch mode requires --yes.
	if len(ids) > 1 && !yes {
		return clierr.New(clierr.ConfirmationReq,
			"batch delete requires --yes")
	}

	if len(ids) == 1 {
		return deleteSingleTask(cfg, st, ids[0], yes)
	}

	// Batch mode (yes is guaranteed true here).
	return runBatch(ids, func(id int64) error {
		if err := st.DeleteTask(id); err != nil {
			return err
		}
		logActivity(cfg, "delete", id, "")
		return nil
	})
}

// deleteSingleTask handles a single task delete with confirmation and output.
func deleteSingleTask(cfg *config.Config, st *store.Store, id int64, yes bool) error {
	t, err := st.GetTask(id)
	if err != nil {
		return err
	}
	subtasks, err := st.Subtasks(id)
	if err != nil {
		return err
	}

	if !yes {
		prompt := fmt.Sprintf("Delete task #%d %q", t.ID, t.Title)
		if len(subtasks) > 0 {
			prompt += fmt.Sprintf(" and %d subtasks", len(subtasks))
		}
		ok, err := confirm(prompt)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
	}

	if err := st.DeleteTask(id); err != nil {
		return err
	}
	logActivity(cfg, "delete", id, t.Title)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status":   "deleted",
			"id":       t.ID,
			"title":    t.Title,
			"subtasks": len(subtasks),
		})
	}

	output.Messagef(os.Stdout, "Deleted task #%d: %s", t.ID, t.Title)
	return nil
}

// confirm asks a y/N question on the terminal. It fails when stdin is
// not a terminal so scripted callers must pass --yes.
func confirm(prompt string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, clierr.New(clierr.ConfirmationReq,
			"cannot prompt for confirmation (not a terminal); use --yes")
	}
	fmt.Fprintf(os.Stderr, "%s? [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes", nil
}
