package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tasker-cli/tasker/internal/tui"
	"github.com/tasker-cli/tasker/internal/watcher"
)

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	model := tui.NewBoard(cfg, st)
	p := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startTUIWatcher(ctx, cfg.DBPath(), p)

	_, err = p.Run()
	return err
}

func startTUIWatcher(ctx context.Context, dbPath string, p *tea.Program) {
	w, err := watcher.New(dbPath, func() {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		return // non-fatal: TUI works without live refresh
	}
	defer w.Close()
	w.Run(ctx, nil)
}
