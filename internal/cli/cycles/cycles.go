package cycles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/recall/internal/cli"
	"github.com/julianstephens/recall/internal/models"
	"github.com/julianstephens/recall/internal/scheduler"
)

type CycleStartCmd struct {
	Date string `help:"First day of the new cycle (today, -N or YYYY-MM-DD)." default:"today"`
}

func (c *CycleStartCmd) Run(ctx *cli.Context) error {
	today, err := ctx.Planner.Today()
	if err != nil {
		return err
	}
	date, err := cli.ResolveDate(c.Date, today)
	if err != nil {
		return err
	}
	if _, err := ctx.Planner.StartCycle(date); err != nil {
		return err
	}
	fmt.Printf("✓ New cycle started on %s. The next study entry is #1.\n", date)
	return nil
}

type CycleStatusCmd struct{}

func (c *CycleStatusCmd) Run(ctx *cli.Context) error {
	status, err := ctx.Planner.CycleStatus()
	if err != nil {
		return err
	}

	start := status.StartDate
	if start == "" {
		start = "(not set, counting all entries)"
	}
	fmt.Println("Cycle Status:")
	fmt.Printf("  Started:       %s\n", start)
	fmt.Printf("  Current index: #%d\n", status.CurrentIndex)
	fmt.Printf("  Profile:       %s\n", status.Profile)
	if status.Profile == models.ProfilePendular {
		fmt.Printf("  Phase:         %s", status.State)
		if status.SuggestedState != status.State {
			fmt.Printf(" (suggested today: %s)", status.SuggestedState)
		}
		fmt.Println()
	}

	if len(status.Conflicts) == 0 {
		fmt.Println("  Conflicts:     none")
		return nil
	}
	fmt.Printf("  Conflicts:     %d\n", len(status.Conflicts))
	for _, r := range status.Conflicts {
		fmt.Printf("    ⚠ #%d %s · %s on %s (%s)\n", r.CycleIndex, r.SubjectName, r.Topic, r.Date, r.ID)
	}
	fmt.Println("\nRun 'recall cycle repair' to renumber them.")
	return nil
}

type CycleStateCmd struct {
	State string `arg:"" help:"Pendular phase: attack or defense." enum:"attack,defense,ATTACK,DEFENSE"`
}

func (c *CycleStateCmd) Run(ctx *cli.Context) error {
	state := models.CycleState(strings.ToUpper(c.State))
	if err := ctx.Planner.SetCycleState(state); err != nil {
		return err
	}
	fmt.Printf("✓ Phase set to %s\n", state)
	return nil
}

type CycleRepairCmd struct {
	Mode string `help:"Repair mode: append or chronological. Asks when omitted."`
}

func (c *CycleRepairCmd) Run(ctx *cli.Context) error {
	status, err := ctx.Planner.CycleStatus()
	if err != nil {
		return err
	}
	if len(status.Conflicts) == 0 {
		fmt.Println("✓ No cycle conflicts to repair.")
		return nil
	}

	modeName := c.Mode
	if modeName == "" {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title(fmt.Sprintf("%d acquisition card(s) share a cycle index. How should they be renumbered?", len(status.Conflicts))).
					Options(
						huh.NewOption("Append: keep existing numbers, move duplicates past the end", string(scheduler.RepairAppend)),
						huh.NewOption("Chronological: renumber the whole cycle by date", string(scheduler.RepairChronological)),
					).
					Value(&modeName),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("interactive form error: %w", err)
		}
	}

	mode, err := scheduler.ParseRepairMode(modeName)
	if err != nil {
		return err
	}
	res, err := ctx.Planner.RepairCycle(mode)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Repaired %d batch(es), %d review(s) renumbered (%s)\n", res.ChangedBatches, len(res.Updated), mode)
	return nil
}

// CycleCmd groups the cycle subcommands.
type CycleCmd struct {
	Status CycleStatusCmd `cmd:"" default:"1" help:"Show the current cycle."`
	Start  CycleStartCmd  `cmd:"" help:"Start a new cycle; numbering restarts at 1."`
	State  CycleStateCmd  `cmd:"" help:"Set the pendular phase."`
	Repair CycleRepairCmd `cmd:"" help:"Renumber duplicate cycle indices."`
}
