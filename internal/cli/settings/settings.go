package settings

import (
	"fmt"
	"sort"

	"github.com/julianstephens/recall/internal/cli"
	"github.com/julianstephens/recall/internal/models"
)

type SettingsCmd struct {
	Pairs []string `arg:"" optional:"" help:"Settings to change as key=value (e.g. daily_capacity_min=300)."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	if len(c.Pairs) == 0 {
		settings, err := ctx.Planner.Settings()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		printSettings(settings)
		return nil
	}

	values, err := cli.ParseSettingPairs(c.Pairs)
	if err != nil {
		return err
	}
	updated, err := ctx.Planner.UpdateSettings(values)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	fmt.Println("✓ Settings updated.")
	printSettings(updated)
	return nil
}

func printSettings(settings models.Settings) {
	values := models.SettingsToMap(settings)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println("Current Settings:")
	for _, k := range keys {
		v := values[k]
		if v == "" {
			v = "(unset)"
		}
		fmt.Printf("  %-20s %s\n", k, v)
	}
}
