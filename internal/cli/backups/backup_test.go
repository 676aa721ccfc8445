package backups

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/recall/internal/cli/clitest"
	"github.com/julianstephens/recall/internal/storage/sqlite"
)

func TestBackupCreateAndList(t *testing.T) {
	ctx := clitest.NewContext(t)

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("BackupListCmd on empty dir failed: %v", err)
	}
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("BackupCreateCmd failed: %v", err)
	}

	backups, err := ctx.Backups().ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("got %d backups, want 1", len(backups))
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Errorf("BackupListCmd failed: %v", err)
	}
}

func TestBackupRestore(t *testing.T) {
	ctx := clitest.NewContext(t)
	clitest.LogStudy(t, ctx, "Anatomy", "Cranial nerves", 60, "2025-01-06")

	mgr := ctx.Backups()
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup() error = %v", err)
	}

	clitest.LogStudy(t, ctx, "Anatomy", "Brachial plexus", 45, "2025-01-06")

	cmd := &BackupRestoreCmd{BackupFile: filepath.Base(backupPath), Yes: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("BackupRestoreCmd failed: %v", err)
	}

	restored := sqlite.NewStore(ctx.Store.GetConfigPath())
	if err := restored.Load(); err != nil {
		t.Fatalf("failed to open restored store: %v", err)
	}
	defer restored.Close()
	reviews, err := restored.GetAllReviews()
	if err != nil {
		t.Fatalf("GetAllReviews() error = %v", err)
	}
	for _, r := range reviews {
		if r.Topic == "Brachial plexus" {
			t.Fatal("restored store still has the study logged after the backup")
		}
	}
	if len(reviews) == 0 {
		t.Error("restored store is empty")
	}
}

func TestBackupRestore_NotFound(t *testing.T) {
	ctx := clitest.NewContext(t)

	cmd := &BackupRestoreCmd{BackupFile: "missing.db", Yes: true}
	if err := cmd.Run(ctx); err == nil {
		t.Error("expected error for a missing backup")
	}
}
