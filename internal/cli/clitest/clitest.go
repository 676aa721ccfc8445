// Package clitest builds command contexts backed by a throwaway SQLite store.
package clitest

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/recall/internal/cli"
	"github.com/julianstephens/recall/internal/config"
	"github.com/julianstephens/recall/internal/planner"
	"github.com/julianstephens/recall/internal/scheduler"
	"github.com/julianstephens/recall/internal/storage/sqlite"
)

// Now is the pinned clock of every test context: 2025-01-06, a Monday.
var Now = time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

// NewContext initializes a SQLite store in a temp dir with the timezone set
// to UTC and the scheduler clock pinned to Now.
func NewContext(t *testing.T) *cli.Context {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "recall.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("failed to read settings: %v", err)
	}
	settings.Timezone = "UTC"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	n := 0
	sched := scheduler.New(
		scheduler.WithClock(func() time.Time { return Now }),
		scheduler.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%03d", n)
		}),
	)
	return &cli.Context{
		Store:   store,
		Planner: planner.New(store, planner.WithScheduler(sched)),
		Config:  config.DefaultConfig(),
	}
}

// LogStudy stores a study entry and fails the test if it is blocked.
func LogStudy(t *testing.T, ctx *cli.Context, subject, topic string, minutes int, date string) scheduler.Projection {
	t.Helper()
	proj, err := ctx.Planner.LogStudy(scheduler.Entry{
		SubjectName:  subject,
		Topic:        topic,
		StudyTimeMin: minutes,
		BaseDate:     date,
	})
	if err != nil {
		t.Fatalf("LogStudy() error = %v", err)
	}
	if proj.Blocker != nil {
		t.Fatalf("LogStudy() blocked: %s", proj.Blocker)
	}
	return proj
}
