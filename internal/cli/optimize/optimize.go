package optimize

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/recall/internal/cli"
	"github.com/julianstephens/recall/internal/constants"
	"github.com/julianstephens/recall/internal/optimizer"
	"github.com/julianstephens/recall/internal/scheduler"
)

type OptimizeCmd struct {
	DryRun      bool `help:"Show optimization suggestions without applying them (report mode)." default:"false"`
	Days        int  `help:"Number of days ahead to analyze." default:"14"`
	Interactive bool `help:"Interactively review and apply optimizations." default:"false"`
	AutoApply   bool `help:"Automatically apply all optimizations without confirmation." default:"false"`
}

func (c *OptimizeCmd) Run(ctx *cli.Context) error {
	days := c.Days
	if days <= 0 {
		days = constants.DefaultOptimizerHorizon
	}

	analyzer := optimizer.NewLoadAnalyzer(ctx.Store, ctx.Planner.Scheduler())

	fmt.Printf("Analyzing the next %d days of reviews...\n", days)
	optimizations, err := analyzer.Analyze(days)
	if err != nil {
		return fmt.Errorf("failed to analyze reviews: %w", err)
	}

	if len(optimizations) == 0 {
		fmt.Println("✓ No optimizations needed. Every day fits within capacity.")
		return nil
	}

	fmt.Printf("\nFound %d optimization suggestion(s):\n\n", len(optimizations))
	for i, opt := range optimizations {
		displayOptimization(i+1, opt)
	}

	if c.DryRun {
		fmt.Println("This was a dry run. Use --interactive to apply optimizations.")
		return nil
	}

	if c.AutoApply {
		fmt.Println("Applying all optimizations...")
		applied := 0
		for _, opt := range optimizations {
			if err := applyOptimization(ctx, opt); err != nil {
				fmt.Printf("  ❌ Failed to apply %s: %v\n", opt.Type, err)
			} else {
				applied++
				fmt.Printf("  ✓ Applied %s\n", describe(opt))
			}
		}
		fmt.Printf("\nApplied %d/%d optimizations.\n", applied, len(optimizations))
		return nil
	}

	if c.Interactive {
		return c.runInteractive(ctx, optimizations)
	}

	fmt.Println("To apply these optimizations:")
	fmt.Println("  - Use --interactive to review and select which to apply")
	fmt.Println("  - Use --auto-apply to apply all automatically")
	return nil
}

func (c *OptimizeCmd) runInteractive(ctx *cli.Context, optimizations []optimizer.Optimization) error {
	fmt.Println("Review each suggestion and choose whether to apply it.")

	applied := 0
	skipped := 0

	for i, opt := range optimizations {
		fmt.Printf("\n[%d/%d] ", i+1, len(optimizations))
		displayOptimization(0, opt)

		var choice string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Apply this optimization?").
					Options(
						huh.NewOption("Apply", "apply"),
						huh.NewOption("Skip", "skip"),
						huh.NewOption("Skip remaining", "skip_all"),
					).
					Value(&choice),
			),
		)

		if err := form.Run(); err != nil {
			return fmt.Errorf("interactive form error: %w", err)
		}

		switch choice {
		case "apply":
			if err := applyOptimization(ctx, opt); err != nil {
				fmt.Printf("  ❌ Failed to apply: %v\n", err)
			} else {
				fmt.Println("  ✓ Applied")
				applied++
			}
		case "skip":
			fmt.Println("  ⊘ Skipped")
			skipped++
		case "skip_all":
			skipped += len(optimizations) - i
			fmt.Printf("\nCompleted: %d applied, %d skipped\n", applied, skipped)
			return nil
		}
	}

	fmt.Printf("\nCompleted: %d applied, %d skipped\n", applied, skipped)
	return nil
}

func describe(opt optimizer.Optimization) string {
	switch opt.Type {
	case optimizer.OptimizationRebalanceDay:
		return fmt.Sprintf("move of %s", opt.Topic)
	case optimizer.OptimizationRescheduleOverdue:
		return "overdue reschedule"
	case optimizer.OptimizationRepairCycle:
		return "cycle repair"
	case optimizer.OptimizationReturnLoans:
		return "loan return"
	case optimizer.OptimizationRaiseCapacity:
		return "capacity change"
	default:
		return string(opt.Type)
	}
}

func displayOptimization(num int, opt optimizer.Optimization) {
	prefix := ""
	if num > 0 {
		prefix = fmt.Sprintf("%d. ", num)
	}

	var label string
	switch opt.Type {
	case optimizer.OptimizationRebalanceDay:
		label = "Rebalance Day"
	case optimizer.OptimizationRescheduleOverdue:
		label = "Reschedule Overdue"
	case optimizer.OptimizationRepairCycle:
		label = "Repair Cycle"
	case optimizer.OptimizationReturnLoans:
		label = "Return Loans"
	case optimizer.OptimizationRaiseCapacity:
		label = "Raise Capacity"
	default:
		label = "Optimize"
	}

	fmt.Printf("%s%s\n", prefix, label)
	if opt.Topic != "" {
		fmt.Printf("   Review: %s (%s)\n", opt.Topic, opt.ReviewID)
	}
	fmt.Printf("   Reason: %s\n", opt.Reason)

	if opt.CurrentValue != nil {
		fmt.Printf("   Current: %v\n", formatValue(opt.CurrentValue))
	}
	if opt.SuggestedValue != nil {
		fmt.Printf("   Suggested: %v\n", formatValue(opt.SuggestedValue))
	}
	fmt.Println()
}

func formatValue(value interface{}) string {
	switch v := value.(type) {
	case map[string]interface{}:
		var parts []string
		for key, val := range v {
			parts = append(parts, fmt.Sprintf("%s=%v", key, val))
		}
		sort.Strings(parts)
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", value)
	}
}

func suggested(opt optimizer.Optimization, key string) (interface{}, bool) {
	m, ok := opt.SuggestedValue.(map[string]interface{})
	if !ok {
		return nil, false
	}
	v, ok := m[key]
	return v, ok
}

func applyOptimization(ctx *cli.Context, opt optimizer.Optimization) error {
	switch opt.Type {
	case optimizer.OptimizationRebalanceDay:
		date, ok := suggested(opt, "date")
		if !ok {
			return fmt.Errorf("suggestion has no target date")
		}
		_, err := ctx.Planner.Move(opt.ReviewID, fmt.Sprint(date))
		return err

	case optimizer.OptimizationRescheduleOverdue:
		target, ok := suggested(opt, "target_date")
		if !ok {
			return fmt.Errorf("suggestion has no target date")
		}
		_, err := ctx.Planner.Reschedule(fmt.Sprint(target))
		return err

	case optimizer.OptimizationRepairCycle:
		mode := scheduler.RepairAppend
		if v, ok := suggested(opt, "mode"); ok {
			parsed, err := scheduler.ParseRepairMode(fmt.Sprint(v))
			if err != nil {
				return err
			}
			mode = parsed
		}
		_, err := ctx.Planner.RepairCycle(mode)
		return err

	case optimizer.OptimizationReturnLoans:
		_, err := ctx.Planner.ReconcileLoans()
		return err

	case optimizer.OptimizationRaiseCapacity:
		v, ok := suggested(opt, constants.SettingDailyCapacityMin)
		if !ok {
			return fmt.Errorf("suggestion has no capacity")
		}
		_, err := ctx.Planner.UpdateSettings(map[string]string{
			constants.SettingDailyCapacityMin: strconv.Itoa(toInt(v)),
		})
		return err
	}
	return fmt.Errorf("unknown optimization type: %s", opt.Type)
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		i, _ := strconv.Atoi(fmt.Sprint(v))
		return i
	}
}
