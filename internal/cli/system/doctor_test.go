package system

import (
	"strings"
	"testing"

	"github.com/julianstephens/recall/internal/cli"
	"github.com/julianstephens/recall/internal/cli/clitest"
	"github.com/julianstephens/recall/internal/storage/sqlite"
)

func sqliteDB(t *testing.T, ctx *cli.Context) *sqlite.Store {
	t.Helper()
	s, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		t.Fatal("expected *sqlite.Store")
	}
	return s
}

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx := clitest.NewContext(t)
	clitest.LogStudy(t, ctx, "Anatomy", "Cranial nerves", 60, "2025-01-06")

	// Missing backups is a warning, not a failure
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed on healthy database: %v", err)
	}
}

func TestDoctorCmd_WithBackups(t *testing.T) {
	ctx := clitest.NewContext(t)
	if _, err := ctx.Backups().CreateBackup(); err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}
	if err := checkBackupsPresent(ctx); err != nil {
		t.Errorf("checkBackupsPresent() = %v with a backup present", err)
	}
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed with backups present: %v", err)
	}
}

func TestDoctorCmd_BrokenSchema(t *testing.T) {
	ctx := clitest.NewContext(t)
	db := sqliteDB(t, ctx).GetDB()

	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		t.Fatalf("failed to delete schema version: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (999)"); err != nil {
		t.Fatalf("failed to insert corrupted schema version: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor command should fail with corrupted schema")
	}
}

func TestCheckMigrationsComplete_Incomplete(t *testing.T) {
	ctx := clitest.NewContext(t)
	db := sqliteDB(t, ctx).GetDB()

	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		t.Fatalf("failed to delete schema version: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (0)"); err != nil {
		t.Fatalf("failed to insert downgraded schema version: %v", err)
	}

	if err := checkMigrationsComplete(ctx); err == nil {
		t.Error("checkMigrationsComplete should fail with incomplete migrations")
	}
}

func TestCheckDateFormats(t *testing.T) {
	ctx := clitest.NewContext(t)
	proj := clitest.LogStudy(t, ctx, "Anatomy", "Cranial nerves", 60, "2025-01-06")
	if err := checkDateFormats(ctx); err != nil {
		t.Fatalf("checkDateFormats() on clean data = %v", err)
	}

	db := sqliteDB(t, ctx).GetDB()
	if _, err := db.Exec("UPDATE reviews SET date = '06/01/2025' WHERE id = ?", proj.Records[1].ID); err != nil {
		t.Fatal(err)
	}
	err := checkDateFormats(ctx)
	if err == nil || !strings.Contains(err.Error(), "1 reviews") {
		t.Errorf("checkDateFormats() = %v, want one invalid review", err)
	}
}

func TestCheckValidation_ConflictsWarn(t *testing.T) {
	ctx := clitest.NewContext(t)
	clitest.LogStudy(t, ctx, "Anatomy", "Cranial nerves", 60, "2025-01-06")
	if _, err := ctx.Planner.UpdateSettings(map[string]string{"daily_capacity_min": "30"}); err != nil {
		t.Fatal(err)
	}

	err := checkValidation(ctx)
	if err == nil || !strings.Contains(err.Error(), "warning") {
		t.Errorf("checkValidation() = %v, want a warning", err)
	}
}

func TestCheckClockTimezone(t *testing.T) {
	ctx := clitest.NewContext(t)
	if err := checkClockTimezone(ctx); err != nil {
		t.Errorf("clock/timezone check failed: %v", err)
	}
}
