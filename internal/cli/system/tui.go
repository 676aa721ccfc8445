package system

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/recall/internal/cli"
	"github.com/julianstephens/recall/internal/logger"
	"github.com/julianstephens/recall/internal/storage"
	"github.com/julianstephens/recall/internal/tui"
)

type TuiCmd struct {
	NoWatch bool `help:"Do not reload the board when the store changes on disk."`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	opts := tui.Options{UpcomingDays: ctx.Config.TUI.UpcomingDays}

	path := ctx.Store.GetConfigPath()
	if ctx.Config.TUI.Watch && !c.NoWatch && ctx.IsFileStore() {
		watchCtx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes := make(chan struct{}, 1)
		opts.Changes = changes
		go func() {
			err := storage.Watch(watchCtx, path, ctx.Config.GetDebounce(), func() {
				select {
				case changes <- struct{}{}:
				default:
				}
			})
			if err != nil {
				logger.Warn("store watcher stopped", "error", err)
			}
		}()
	}

	p := tea.NewProgram(tui.NewModel(ctx.Planner, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run board: %w", err)
	}
	return nil
}
