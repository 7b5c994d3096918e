package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tasker-cli/tasker/internal/clierr"
	"github.com/tasker-cli/tasker/internal/date"
	"github.com/tasker-cli/tasker/internal/output"
	"github.com/tasker-cli/tasker/internal/store"
	"github.com/tasker-cli/tasker/internal/task"
)

var addCmd = &cobra.Command{
	Use:     "add TITLE",
	Aliases: []string{"new"},
	Short:   "Add a task",
	Long: `Creates a task. A recurring task with a due date also gets one follow-up
instance scheduled at the next occurrence of its pattern.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	// Flag aliases for ergonomics.
	addCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "desc":
			name = "description"
		case "recurrence":
			name = "recur"
		}
		return pflag.NormalizedName(name)
	})
	addCmd.Flags().StringP("description", "m", "", "task description (markdown)")
	addCmd.Flags().StringP("category", "c", "", "category (Work, Studies, Personal, Media, Misc)")
	addCmd.Flags().String("project", "", "project the task belongs to")
	addCmd.Flags().String("area", "", "area of responsibility")
	addCmd.Flags().String("resource", "", "related resource")
	addCmd.Flags().StringP("due", "d", "", "due date (YYYY-MM-DD)")
	addCmd.Flags().StringP("priority", "p", "", "priority (high, medium, low)")
	addCmd.Flags().String("recur", "", "recurrence pattern (daily, weekly, monthly, yearly)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	draft, err := draftFromFlags(cmd, args[0])
	if err != nil {
		return err
	}
	if draft.Category == "" {
		draft.Category = task.CategoryMisc
		if cfg.Defaults.Category != "" {
			draft.Category = task.Category(cfg.Defaults.Category)
		}
	}
	if draft.Priority == 0 {
		draft.Priority = cfg.DefaultPriorityLevel()
	}

	res, err := st.CreateTask(draft)
	if err != nil {
		return err
	}
	logActivity(cfg, "create", res.ID, draft.Title)
	if res.FollowUpID != 0 {
		logActivity(cfg, "create", res.FollowUpID, draft.Title+" (follow-up)")
	}

	return printCreateResult(res, draft.Title)
}

// draftFromFlags assembles a task draft from the shared add/media flags.
func draftFromFlags(cmd *cobra.Command, title string) (task.Draft, error) {
	draft := task.Draft{Title: strings.TrimSpace(title)}

	draft.Description, _ = cmd.Flags().GetString("description")
	draft.Project, _ = cmd.Flags().GetString("project")
	draft.Area, _ = cmd.Flags().GetString("area")
	draft.Resource, _ = cmd.Flags().GetString("resource")

	if cat, _ := cmd.Flags().GetString("category"); cat != "" {
		parsed, ok := task.ParseCategory(cat)
		if !ok {
			return draft, task.ValidateCategory(task.Category(cat))
		}
		draft.Category = parsed
	}

	if prio, _ := cmd.Flags().GetString("priority"); prio != "" {
		parsed, ok := task.ParsePriority(prio)
		if !ok {
			return draft, clierr.Newf(clierr.InvalidPriority, "invalid priority %q (high, medium, low)", prio)
		}
		draft.Priority = parsed
	}

	if due, _ := cmd.Flags().GetString("due"); due != "" {
		d, err := date.Parse(due)
		if err != nil {
			return draft, task.ValidateDate("due", due, err)
		}
		draft.Due = &d
	}

	if recur, _ := cmd.Flags().GetString("recur"); recur != "" {
		parsed, ok := task.ParsePattern(recur)
		if !ok {
			return draft, task.ValidatePattern(task.Pattern(recur))
		}
		draft.Recurring = true
		draft.Pattern = parsed
	}

	return draft, nil
}

func printCreateResult(res *store.CreateResult, title string) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, res)
	}

	output.Messagef(os.Stdout, "Created task #%d: %s", res.ID, title)
	if res.FollowUpID != 0 {
		output.Messagef(os.Stdout, "Scheduled follow-up #%d due %s", res.FollowUpID, res.FollowUpDue)
	}
	return nil
}
