package optimize

import (
	"testing"

	"github.com/julianstephens/recall/internal/cli/clitest"
	"github.com/julianstephens/recall/internal/constants"
	"github.com/julianstephens/recall/internal/models"
	"github.com/julianstephens/recall/internal/optimizer"
	"github.com/julianstephens/recall/internal/planner"
)

func overdueCount(t *testing.T, p *planner.Planner) int {
	t.Helper()
	reviews, err := p.ListReviews(planner.ReviewFilter{To: "2025-01-05", Status: models.StatusPending})
	if err != nil {
		t.Fatalf("ListReviews() error = %v", err)
	}
	return len(reviews)
}

func TestOptimizeCmd_Quiet(t *testing.T) {
	ctx := clitest.NewContext(t)

	if err := (&OptimizeCmd{Days: 7}).Run(ctx); err != nil {
		t.Errorf("OptimizeCmd on an empty store failed: %v", err)
	}
}

func TestOptimizeCmd_DryRunChangesNothing(t *testing.T) {
	ctx := clitest.NewContext(t)
	clitest.LogStudy(t, ctx, "Anatomy", "Cranial nerves", 60, "2025-01-03")

	if err := (&OptimizeCmd{DryRun: true, Days: 7}).Run(ctx); err != nil {
		t.Fatalf("OptimizeCmd dry run failed: %v", err)
	}
	if n := overdueCount(t, ctx.Planner); n != 2 {
		t.Errorf("dry run left %d overdue reviews, want 2", n)
	}
}

func TestOptimizeCmd_AutoApplyReschedulesOverdue(t *testing.T) {
	ctx := clitest.NewContext(t)
	clitest.LogStudy(t, ctx, "Anatomy", "Cranial nerves", 60, "2025-01-03")

	if err := (&OptimizeCmd{AutoApply: true, Days: 7}).Run(ctx); err != nil {
		t.Fatalf("OptimizeCmd auto apply failed: %v", err)
	}
	if n := overdueCount(t, ctx.Planner); n != 0 {
		t.Errorf("auto apply left %d overdue reviews, want 0", n)
	}
}

func TestApplyOptimization_RaiseCapacity(t *testing.T) {
	ctx := clitest.NewContext(t)

	opt := optimizer.Optimization{
		Type:           optimizer.OptimizationRaiseCapacity,
		SuggestedValue: map[string]interface{}{constants.SettingDailyCapacityMin: 300},
	}
	if err := applyOptimization(ctx, opt); err != nil {
		t.Fatalf("applyOptimization() error = %v", err)
	}
	settings, _ := ctx.Planner.Settings()
	if settings.DailyCapacityMin != 300 {
		t.Errorf("capacity = %d, want 300", settings.DailyCapacityMin)
	}
}

func TestApplyOptimization_RebalanceMovesReview(t *testing.T) {
	ctx := clitest.NewContext(t)
	proj := clitest.LogStudy(t, ctx, "Anatomy", "Cranial nerves", 60, "2025-01-06")
	last := proj.Records[len(proj.Records)-1]

	opt := optimizer.Optimization{
		ReviewID:       last.ID,
		Type:           optimizer.OptimizationRebalanceDay,
		SuggestedValue: map[string]interface{}{"date": "2025-03-01"},
	}
	if err := applyOptimization(ctx, opt); err != nil {
		t.Fatalf("applyOptimization() error = %v", err)
	}
	got, _ := ctx.Planner.GetReview(last.ID)
	if got.Date != "2025-03-01" {
		t.Errorf("review date = %s, want 2025-03-01", got.Date)
	}

	opt.SuggestedValue = nil
	if err := applyOptimization(ctx, opt); err == nil {
		t.Error("applyOptimization() without a date should fail")
	}
}

func TestFormatValue(t *testing.T) {
	got := formatValue(map[string]interface{}{"mode": "append", "date": "2025-01-06"})
	if got != "date=2025-01-06, mode=append" {
		t.Errorf("formatValue() = %q", got)
	}
	if got := formatValue(42); got != "42" {
		t.Errorf("formatValue(42) = %q", got)
	}
}
