package system

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/recall/internal/cli"
	"github.com/julianstephens/recall/internal/logger"
	"github.com/julianstephens/recall/internal/notifier"
)

// NotifyCmd sends today's due-review reminder to recall-tray. It is meant
// to be run from cron or the tray's scheduler.
type NotifyCmd struct {
	DryRun bool `help:"Print the reminder to stdout instead of sending it."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	if ctx.Config != nil && !ctx.Config.Notify.Enabled {
		if c.DryRun {
			fmt.Println("Notifications are disabled in config.toml.")
		}
		return nil
	}

	board, err := ctx.Planner.Board(0)
	if err != nil {
		return err
	}

	if c.DryRun {
		text := notifier.ReminderText(board)
		if text == "" {
			fmt.Println("Nothing due today.")
			return nil
		}
		fmt.Println("[DryRun] " + text)
		return nil
	}

	err = notifier.New().RemindDue(context.Background(), board)
	if errors.Is(err, notifier.ErrNothingDue) {
		logger.Debug("No reminder sent, nothing due", "date", board.Today)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	logger.Info("Reminder sent", "date", board.Today, "due", len(board.DueToday), "overdue", len(board.Overdue))
	return nil
}
