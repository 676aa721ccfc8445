package system

import (
	"strings"
	"testing"

	"github.com/julianstephens/recall/internal/cli/clitest"
)

func TestDebugDBPathCmd(t *testing.T) {
	ctx := clitest.NewContext(t)
	if err := (&DebugDBPathCmd{}).Run(ctx); err != nil {
		t.Errorf("debug db-path command failed: %v", err)
	}
}

func TestDebugDumpReviewCmd(t *testing.T) {
	ctx := clitest.NewContext(t)
	proj := clitest.LogStudy(t, ctx, "Anatomy", "Cranial nerves", 60, "2025-01-06")

	if err := (&DebugDumpReviewCmd{ID: proj.Records[0].ID}).Run(ctx); err != nil {
		t.Errorf("debug dump-review failed: %v", err)
	}

	err := (&DebugDumpReviewCmd{ID: "missing"}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "review not found") {
		t.Errorf("expected review not found error, got %v", err)
	}
}

func TestDebugDumpBatchCmd(t *testing.T) {
	ctx := clitest.NewContext(t)
	proj := clitest.LogStudy(t, ctx, "Anatomy", "Cranial nerves", 60, "2025-01-06")

	if err := (&DebugDumpBatchCmd{BatchID: proj.Records[0].BatchID}).Run(ctx); err != nil {
		t.Errorf("debug dump-batch failed: %v", err)
	}
	if err := (&DebugDumpBatchCmd{BatchID: "nope"}).Run(ctx); err == nil {
		t.Error("expected error for unknown batch")
	}
}

func TestDebugDumpDayCmd(t *testing.T) {
	ctx := clitest.NewContext(t)
	clitest.LogStudy(t, ctx, "Anatomy", "Cranial nerves", 60, "2025-01-06")

	for _, date := range []string{"today", "+1", "2025-01-13"} {
		if err := (&DebugDumpDayCmd{Date: date}).Run(ctx); err != nil {
			t.Errorf("debug dump-day %s failed: %v", date, err)
		}
	}
	if err := (&DebugDumpDayCmd{Date: "13/01/2025"}).Run(ctx); err == nil {
		t.Error("expected error for invalid date")
	}
}

func TestDebugDumpSubjectAndSettings(t *testing.T) {
	ctx := clitest.NewContext(t)
	clitest.LogStudy(t, ctx, "Anatomy", "Cranial nerves", 60, "2025-01-06")

	if err := (&DebugDumpSubjectCmd{Ref: "anatomy"}).Run(ctx); err != nil {
		t.Errorf("debug dump-subject failed: %v", err)
	}
	if err := (&DebugDumpSubjectCmd{Ref: "Physics"}).Run(ctx); err == nil {
		t.Error("expected error for unknown subject")
	}
	if err := (&DebugDumpSettingsCmd{}).Run(ctx); err != nil {
		t.Errorf("debug dump-settings failed: %v", err)
	}
	if err := (&DebugDumpConfigCmd{}).Run(ctx); err != nil {
		t.Errorf("debug dump-config failed: %v", err)
	}
}
