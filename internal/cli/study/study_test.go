package study

import (
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/recall/internal/cli/clitest"
	"github.com/julianstephens/recall/internal/models"
	"github.com/julianstephens/recall/internal/planner"
)

func TestLogCmd(t *testing.T) {
	ctx := clitest.NewContext(t)

	cmd := &LogCmd{
		Subject:   "Anatomy",
		Topic:     "Cranial nerves",
		Minutes:   60,
		Date:      "today",
		High:      true,
		Subtask:   []string{"draw diagram"},
		Recurrent: []string{"flashcards"},
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("LogCmd failed: %v", err)
	}

	reviews, err := ctx.Planner.ListReviews(planner.ReviewFilter{})
	if err != nil {
		t.Fatalf("ListReviews() error = %v", err)
	}
	if len(reviews) != 4 {
		t.Fatalf("got %d reviews, want acquisition plus 3 reviews", len(reviews))
	}
	acq := reviews[0]
	if acq.Type != models.ReviewNew || acq.Date != "2025-01-06" {
		t.Errorf("acquisition = %s on %s, want NEW on 2025-01-06", acq.Type, acq.Date)
	}
	if acq.Complexity != models.ComplexityHigh {
		t.Errorf("complexity = %s, want HIGH", acq.Complexity)
	}
	if len(acq.Subtasks) != 2 {
		t.Errorf("acquisition has %d subtasks, want 2", len(acq.Subtasks))
	}

	subject, err := ctx.Planner.FindSubject("Anatomy")
	if err != nil {
		t.Fatalf("subject was not created: %v", err)
	}
	if acq.SubjectID != subject.ID {
		t.Errorf("review subject = %s, want %s", acq.SubjectID, subject.ID)
	}
}

func TestLogCmd_Blocked(t *testing.T) {
	ctx := clitest.NewContext(t)
	if _, err := ctx.Planner.UpdateSettings(map[string]string{"daily_capacity_min": "30"}); err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}
	clitest.LogStudy(t, ctx, "Anatomy", "Cranial nerves", 25, "2025-01-05")

	cmd := &LogCmd{Subject: "Anatomy", Topic: "Brachial plexus", Minutes: 60, Date: "2025-01-05"}
	err := cmd.Run(ctx)
	if !errors.Is(err, errBlocked) {
		t.Fatalf("LogCmd error = %v, want errBlocked", err)
	}
	reviews, _ := ctx.Planner.ListReviews(planner.ReviewFilter{})
	for _, r := range reviews {
		if r.Topic == "Brachial plexus" {
			t.Fatal("blocked entry was saved")
		}
	}
}

func TestLogCmd_BadDate(t *testing.T) {
	ctx := clitest.NewContext(t)
	cmd := &LogCmd{Subject: "Anatomy", Topic: "Cranial nerves", Minutes: 30, Date: "someday"}
	if err := cmd.Run(ctx); err == nil {
		t.Error("expected error for an unparseable date")
	}
}

func TestTodayCmd(t *testing.T) {
	ctx := clitest.NewContext(t)
	clitest.LogStudy(t, ctx, "Anatomy", "Cranial nerves", 60, "2025-01-05")

	if err := (&TodayCmd{Days: 7}).Run(ctx); err != nil {
		t.Errorf("TodayCmd failed: %v", err)
	}
}

func TestRescheduleCmd(t *testing.T) {
	ctx := clitest.NewContext(t)

	if err := (&RescheduleCmd{To: "today"}).Run(ctx); err != nil {
		t.Fatalf("RescheduleCmd with nothing overdue failed: %v", err)
	}

	clitest.LogStudy(t, ctx, "Anatomy", "Cranial nerves", 60, "2025-01-03")
	if err := (&RescheduleCmd{To: "today"}).Run(ctx); err != nil {
		t.Fatalf("RescheduleCmd failed: %v", err)
	}
	overdue, _ := ctx.Planner.ListReviews(planner.ReviewFilter{To: "2025-01-05", Status: models.StatusPending})
	if len(overdue) != 0 {
		t.Errorf("%d reviews still overdue", len(overdue))
	}
}

func TestFormatReview(t *testing.T) {
	r := models.Review{
		ID:          "r1",
		SubjectName: "Anatomy",
		Topic:       "Cranial nerves",
		TimeMin:     20,
		Date:        "2025-01-06",
		Type:        models.Review24H,
		CycleIndex:  2,
		IsTemporary: true,
		Subtasks:    []models.Subtask{{ID: "s", Text: "x", Done: true}},
	}
	got := FormatReview(r, true)
	for _, want := range []string{"↩", "2025-01-06", "24H", "Anatomy · Cranial nerves", "20 min", "#2", "[1/1]", "(r1)"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatReview() = %q, missing %q", got, want)
		}
	}
}
