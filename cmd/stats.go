package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tasker-cli/tasker/internal/date"
	"github.com/tasker-cli/tasker/internal/output"
	"github.com/tasker-cli/tasker/internal/query"
	"github.com/tasker-cli/tasker/internal/store"
	"github.com/tasker-cli/tasker/internal/watcher"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task statistics",
	Long: `Shows completion rate, per-category and per-priority counts, and the
overdue list. With --watch the view refreshes whenever the database changes.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolP("watch", "w", false, "refresh on database changes (Ctrl-C to exit)")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	cfg, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		return printStats(st)
	}

	// Watch mode: re-render on every (debounced) database change.
	render := func() {
		fmt.Fprint(os.Stdout, "\033[2J\033[H") // clear screen, home cursor
		if err := printStats(st); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	render()

	w, err := watcher.New(cfg.DBPath(), render)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w.Run(ctx, func(err error) {
		fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
	})
	return nil
}

func printStats(st *store.Store) error {
	tasks, err := st.Tasks(store.Filter{})
	if err != nil {
		return err
	}

	stats := query.Summarize(tasks, date.Today())

	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, stats)
	}
	if format == output.FormatCompact {
		output.StatsCompact(os.Stdout, stats)
		return nil
	}

	output.StatsTable(os.Stdout, stats)
	return nil
}
