package export

import (
	"errors"
	"fmt"

	"github.com/julianstephens/recall/internal/calendar"
	"github.com/julianstephens/recall/internal/cli"
	"github.com/julianstephens/recall/internal/utils"
)

type ExportCmd struct {
	From      string `help:"First day to export (today, +N, YYYY-MM-DD)." default:"today"`
	To        string `help:"Last day to export (today, +N, YYYY-MM-DD)." default:"+30"`
	Out       string `short:"o" help:"Output .ics file. Prints to stdout when omitted."`
	Overwrite bool   `help:"Replace the output file if it exists."`
	DayStart  string `help:"Time the first review of each day starts (HH:MM). Defaults to the config file."`
	NoBreak   bool   `help:"Pack reviews back to back without breaks."`
	Reminder  *int   `help:"Minutes before each review to alert (0 disables)."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	today, err := ctx.Planner.Today()
	if err != nil {
		return err
	}

	opts := ctx.Config.ExportOptions()
	if opts.StartDate, err = cli.ResolveDate(c.From, today); err != nil {
		return err
	}
	if opts.EndDate, err = cli.ResolveDate(c.To, today); err != nil {
		return err
	}
	if c.DayStart != "" {
		opts.DayStart = c.DayStart
	}
	if c.NoBreak {
		opts.IncludeBreak = false
	}
	if c.Reminder != nil {
		opts.ReminderMinutes = *c.Reminder
	}
	if c.Out != "" {
		if opts.FilePath, err = utils.ExpandPath(c.Out); err != nil {
			return err
		}
		opts.Overwrite = c.Overwrite
	}

	body, err := ctx.Planner.Export(opts)
	if errors.Is(err, calendar.ErrNothingToExport) {
		fmt.Printf("⊘ No pending reviews between %s and %s.\n", opts.StartDate, opts.EndDate)
		return nil
	}
	if err != nil {
		return err
	}

	if opts.FilePath == "" {
		fmt.Print(body)
		return nil
	}
	fmt.Printf("✓ Exported reviews from %s to %s into %s\n", opts.StartDate, opts.EndDate, opts.FilePath)
	return nil
}
