package scheduler

import (
	"errors"
	"testing"

	"github.com/julianstephens/recall/internal/models"
)

func TestRescheduleOverdue_PreservesSpacing(t *testing.T) {
	acq := card("x", "b-x", "2025-01-01", models.ReviewNew, 60, 1)
	acq.Status = models.StatusDone
	store := []models.Review{
		acq,
		card("x-24", "b-x", "2025-01-02", models.Review24H, 12, 1),
		card("x-7", "b-x", "2025-01-08", models.Review7Day, 6, 1),
		card("x-30", "b-x", "2025-01-31", models.Review30Day, 3, 1),
		card("y", "b-y", "2025-01-10", models.ReviewNew, 30, 2),
	}

	res, err := RescheduleOverdue(store, testSettings(), "2025-01-04", "2025-01-05")
	if err != nil {
		t.Fatalf("RescheduleOverdue() error = %v", err)
	}
	if res.Overdue != 1 || res.Shift != 3 || res.ShiftedCount != 3 || res.Cascaded != 0 {
		t.Errorf("result = %+v", res)
	}

	got := byID(apply(store, res.Updated))
	want := map[string]string{
		"x":    "2025-01-01",
		"x-24": "2025-01-05",
		"x-7":  "2025-01-11",
		"x-30": "2025-02-03",
		"y":    "2025-01-10",
	}
	for id, date := range want {
		if got[id].Date != date {
			t.Errorf("%s date = %s, want %s", id, got[id].Date, date)
		}
	}
	if len(res.Updated) != 3 {
		t.Errorf("Updated = %d records, want 3", len(res.Updated))
	}
	for i := 1; i < len(res.Updated); i++ {
		if res.Updated[i-1].Date > res.Updated[i].Date {
			t.Errorf("Updated not sorted by date: %s before %s", res.Updated[i-1].Date, res.Updated[i].Date)
		}
	}
}

func TestRescheduleOverdue_NothingOverdue(t *testing.T) {
	store := []models.Review{card("y", "b-y", "2025-01-10", models.ReviewNew, 30, 1)}
	res, err := RescheduleOverdue(store, testSettings(), "2025-01-05", "2025-01-05")
	if err != nil {
		t.Fatalf("RescheduleOverdue() error = %v", err)
	}
	if res.Overdue != 0 || len(res.Updated) != 0 {
		t.Errorf("expected no-op, got %+v", res)
	}
}

func TestRescheduleOverdue_InvalidTarget(t *testing.T) {
	store := []models.Review{card("x-24", "b-x", "2025-01-02", models.Review24H, 12, 1)}

	if _, err := RescheduleOverdue(store, testSettings(), "2025-01-04", "tomorrow"); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("malformed target error = %v, want ErrInvalidTarget", err)
	}
	if _, err := RescheduleOverdue(store, testSettings(), "2025-01-04", "2025-01-02"); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("non-forward target error = %v, want ErrInvalidTarget", err)
	}
}

func TestRescheduleOverdue_CascadesOverload(t *testing.T) {
	store := []models.Review{
		card("a-24", "b-a", "2025-01-05", models.Review24H, 100, 2),
		card("a-7", "b-a", "2025-01-12", models.Review7Day, 50, 2),
		card("b-1", "b-b", "2025-01-10", models.ReviewNew, 120, 1),
		card("b-2", "b-c", "2025-01-10", models.ReviewNew, 80, 1),
	}
	store[0].IsTemporary = true
	store[0].OriginalDate = "2025-01-06"

	res, err := RescheduleOverdue(store, testSettings(), "2025-01-10", "2025-01-10")
	if err != nil {
		t.Fatalf("RescheduleOverdue() error = %v", err)
	}
	if res.Shift != 5 || res.Cascaded != 1 {
		t.Errorf("result = %+v", res)
	}

	got := byID(apply(store, res.Updated))
	if got["a-24"].Date != "2025-01-11" {
		t.Errorf("a-24 date = %s, want 2025-01-11", got["a-24"].Date)
	}
	if got["a-24"].IsTemporary || got["a-24"].OriginalDate != "" {
		t.Error("shifted loan should lose its loan flags")
	}
	if got["a-7"].Date != "2025-01-17" {
		t.Errorf("a-7 date = %s, want 2025-01-17", got["a-7"].Date)
	}
	if got["b-1"].Date != "2025-01-10" || got["b-2"].Date != "2025-01-10" {
		t.Error("lower cycle index records should stay on their day")
	}

	// No pending record of a shifted train is left before the target.
	for _, r := range got {
		if !r.IsDone() && r.Date < "2025-01-10" {
			t.Errorf("%s still overdue on %s", r.ID, r.Date)
		}
	}
	// Every day is within capacity.
	for date, load := range DayLoads(apply(store, res.Updated)) {
		if load > testSettings().DailyCapacityMin {
			t.Errorf("%s load %d exceeds capacity", date, load)
		}
	}
}

func TestWaterfall(t *testing.T) {
	reviews := []models.Review{
		card("r1", "b1", "2025-01-10", models.ReviewNew, 60, 1),
		card("r2", "b2", "2025-01-10", models.ReviewNew, 60, 2),
		card("r3", "b3", "2025-01-10", models.ReviewNew, 60, 3),
		card("r4", "b4", "2025-01-10", models.ReviewNew, 60, 4),
		card("r5", "b5", "2025-01-10", models.ReviewNew, 60, 5),
		card("n1", "b6", "2025-01-11", models.ReviewNew, 200, 1),
	}

	moves := Waterfall(reviews, 240, "2025-01-10", "2025-01-10")
	if moves != 2 {
		t.Errorf("Waterfall() moves = %d, want 2", moves)
	}

	got := byID(reviews)
	if got["r5"].Date != "2025-01-12" {
		t.Errorf("r5 date = %s, want 2025-01-12", got["r5"].Date)
	}
	for _, id := range []string{"r1", "r2", "r3", "r4"} {
		if got[id].Date != "2025-01-10" {
			t.Errorf("%s moved to %s", id, got[id].Date)
		}
	}
	if got["n1"].Date != "2025-01-11" {
		t.Errorf("n1 moved to %s", got["n1"].Date)
	}
}

func TestWaterfall_SingleOversizedRecordStays(t *testing.T) {
	reviews := []models.Review{card("big", "b1", "2025-01-10", models.ReviewNew, 300, 1)}
	if moves := Waterfall(reviews, 240, "2025-01-10", "2025-01-10"); moves != 0 {
		t.Errorf("Waterfall() moves = %d, want 0", moves)
	}
	if reviews[0].Date != "2025-01-10" {
		t.Errorf("oversized record moved to %s", reviews[0].Date)
	}
}

func TestWaterfall_IgnoresDoneRecords(t *testing.T) {
	done := card("d", "b1", "2025-01-10", models.ReviewNew, 200, 9)
	done.Status = models.StatusDone
	reviews := []models.Review{done, card("p", "b2", "2025-01-10", models.ReviewNew, 100, 1)}
	if moves := Waterfall(reviews, 240, "2025-01-10", "2025-01-10"); moves != 0 {
		t.Errorf("Waterfall() moves = %d, want 0", moves)
	}
}
