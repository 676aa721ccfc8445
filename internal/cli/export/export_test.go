package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/recall/internal/cli/clitest"
)

func TestExportCmd_File(t *testing.T) {
	ctx := clitest.NewContext(t)
	clitest.LogStudy(t, ctx, "Anatomy", "Cranial nerves", 60, "2025-01-06")
	out := filepath.Join(t.TempDir(), "reviews.ics")

	cmd := &ExportCmd{From: "today", To: "+31", Out: out}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("ExportCmd failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	body := string(data)
	if !strings.Contains(body, "BEGIN:VCALENDAR") {
		t.Error("export is not a calendar")
	}
	if got := strings.Count(body, "BEGIN:VEVENT"); got != 4 {
		t.Errorf("export has %d events, want 4", got)
	}
	if !strings.Contains(body, "BEGIN:VALARM") {
		t.Error("export has no reminders")
	}

	if err := cmd.Run(ctx); err == nil {
		t.Error("expected error when the file exists without --overwrite")
	}
	cmd.Overwrite = true
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("ExportCmd with overwrite failed: %v", err)
	}
}

func TestExportCmd_NoReminders(t *testing.T) {
	ctx := clitest.NewContext(t)
	clitest.LogStudy(t, ctx, "Anatomy", "Cranial nerves", 60, "2025-01-06")
	out := filepath.Join(t.TempDir(), "reviews.ics")

	zero := 0
	cmd := &ExportCmd{From: "today", To: "today", Out: out, Reminder: &zero, NoBreak: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("ExportCmd failed: %v", err)
	}
	data, _ := os.ReadFile(out)
	if strings.Contains(string(data), "BEGIN:VALARM") {
		t.Error("export has reminders with --reminder 0")
	}
	if got := strings.Count(string(data), "BEGIN:VEVENT"); got != 1 {
		t.Errorf("export has %d events, want 1", got)
	}
}

func TestExportCmd_NothingToExport(t *testing.T) {
	ctx := clitest.NewContext(t)

	if err := (&ExportCmd{From: "today", To: "+7"}).Run(ctx); err != nil {
		t.Errorf("ExportCmd with nothing pending = %v, want nil", err)
	}
}

func TestExportCmd_BadRange(t *testing.T) {
	ctx := clitest.NewContext(t)
	clitest.LogStudy(t, ctx, "Anatomy", "Cranial nerves", 60, "2025-01-06")

	if err := (&ExportCmd{From: "+7", To: "today"}).Run(ctx); err == nil {
		t.Error("expected error when the range ends before it starts")
	}
	if err := (&ExportCmd{From: "today", To: "+7", DayStart: "25:00"}).Run(ctx); err == nil {
		t.Error("expected error for an invalid day start")
	}
}
