package system

import (
	"testing"

	"github.com/julianstephens/recall/internal/cli/clitest"
)

func TestNotifyCmd_DryRun(t *testing.T) {
	ctx := clitest.NewContext(t)
	clitest.LogStudy(t, ctx, "Anatomy", "Cranial nerves", 60, "2025-01-05")

	if err := (&NotifyCmd{DryRun: true}).Run(ctx); err != nil {
		t.Errorf("NotifyCmd dry run failed: %v", err)
	}
}

func TestNotifyCmd_NothingDue(t *testing.T) {
	ctx := clitest.NewContext(t)

	// Nothing due means the tray is never contacted, so this succeeds
	// without a running tray.
	if err := (&NotifyCmd{}).Run(ctx); err != nil {
		t.Errorf("NotifyCmd with nothing due failed: %v", err)
	}
}

func TestNotifyCmd_Disabled(t *testing.T) {
	ctx := clitest.NewContext(t)
	clitest.LogStudy(t, ctx, "Anatomy", "Cranial nerves", 60, "2025-01-05")
	ctx.Config.Notify.Enabled = false

	if err := (&NotifyCmd{}).Run(ctx); err != nil {
		t.Errorf("NotifyCmd with notifications disabled failed: %v", err)
	}
}
