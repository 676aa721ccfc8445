package system

import (
	"fmt"
	"strings"

	"github.com/julianstephens/recall/internal/cli"
)

type ValidateCmd struct {
	Repair bool `help:"Return expired loans to their original day before validating."`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	if c.Repair {
		restored, err := ctx.Planner.ReconcileLoans()
		if err != nil {
			return err
		}
		if len(restored) > 0 {
			fmt.Printf("✓ Returned %d borrowed review(s) to their original day\n", len(restored))
		}
	}

	result, err := ctx.Planner.Validate()
	if err != nil {
		return err
	}
	fmt.Println(strings.TrimRight(result.FormatReport(), "\n"))
	return nil
}
