package scheduler

import (
	"errors"
	"testing"

	"github.com/julianstephens/recall/internal/models"
)

func TestCompleteReview_BlockedByPendingSubtasks(t *testing.T) {
	s := newTestScheduler(t, fixedNow)
	r := card("r", "b", "2025-01-01", models.ReviewNew, 30, 1)
	r.Subtasks = []models.Subtask{
		{ID: "s1", Text: "Read chapter", Done: true},
		{ID: "s2", Text: "Flashcards"},
	}
	store := []models.Review{r}

	_, err := s.CompleteReview(store, "r")
	if !errors.Is(err, ErrPendingSubtasks) {
		t.Fatalf("CompleteReview() error = %v, want ErrPendingSubtasks", err)
	}
	if store[0].Status != models.StatusPending {
		t.Error("blocked completion changed the stored status")
	}

	r, _ = ToggleSubtask(r, "s2")
	res, err := s.CompleteReview([]models.Review{r}, "r")
	if err != nil {
		t.Fatalf("CompleteReview() after toggling error = %v", err)
	}
	if !res.Review.IsDone() || res.Review.CompletedAt == nil || !res.Review.CompletedAt.Equal(fixedNow) {
		t.Errorf("completed review = %+v", res.Review)
	}
}

func TestCompleteReview_Errors(t *testing.T) {
	s := newTestScheduler(t, fixedNow)
	done := card("done", "b", "2025-01-01", models.ReviewNew, 30, 1)
	done.Status = models.StatusDone

	if _, err := s.CompleteReview([]models.Review{done}, "missing"); !errors.Is(err, ErrReviewNotFound) {
		t.Errorf("missing id error = %v, want ErrReviewNotFound", err)
	}
	if _, err := s.CompleteReview([]models.Review{done}, "done"); !errors.Is(err, ErrAlreadyDone) {
		t.Errorf("done review error = %v, want ErrAlreadyDone", err)
	}
}

func TestCompleteReview_KeepsLoanOnCompletionDay(t *testing.T) {
	s := newTestScheduler(t, fixedNow)
	r := card("r", "b", "2025-01-01", models.Review24H, 10, 1)
	r.IsTemporary = true
	r.OriginalDate = "2025-01-04"

	res, err := s.CompleteReview([]models.Review{r}, "r")
	if err != nil {
		t.Fatalf("CompleteReview() error = %v", err)
	}
	if res.Review.Date != "2025-01-01" || res.Review.IsTemporary || res.Review.OriginalDate != "" {
		t.Errorf("completed loan = %+v", res.Review)
	}
}

func TestCompleteReview_CarriesRecurrentSubtasks(t *testing.T) {
	s := newTestScheduler(t, fixedNow)
	acq := card("x", "b-x", "2025-01-01", models.ReviewNew, 60, 1)
	acq.Subtasks = []models.Subtask{
		{ID: "s1", Text: "Anki deck", Done: true, IsRecurrent: true},
		{ID: "s2", Text: "Summary", Done: true},
		{ID: "s3", Text: "Practice questions", Done: true, IsRecurrent: true},
	}
	next := card("x-24", "b-x", "2025-01-02", models.Review24H, 12, 1)
	next.Subtasks = []models.Subtask{{ID: "s9", Text: "anki DECK"}}
	later := card("x-7", "b-x", "2025-01-08", models.Review7Day, 6, 1)
	other := card("y", "b-y", "2025-01-02", models.ReviewNew, 30, 2)

	res, err := s.CompleteReview([]models.Review{acq, next, later, other}, "x")
	if err != nil {
		t.Fatalf("CompleteReview() error = %v", err)
	}
	if res.Carried == nil {
		t.Fatal("expected recurrent subtasks to be carried")
	}
	if res.Carried.ID != "x-24" {
		t.Errorf("carried to %s, want x-24", res.Carried.ID)
	}

	subtasks := res.Carried.Subtasks
	if len(subtasks) != 2 {
		t.Fatalf("carried subtasks = %+v, want 2 entries", subtasks)
	}
	added := subtasks[1]
	if added.Text != "Practice questions" || added.Done || !added.IsRecurrent || added.ID != "id-001" {
		t.Errorf("carried subtask = %+v", added)
	}
}

func TestCompleteReview_NoNextPending(t *testing.T) {
	s := newTestScheduler(t, fixedNow)
	last := card("x-30", "b-x", "2025-01-31", models.Review30Day, 3, 1)
	last.Subtasks = []models.Subtask{{ID: "s1", Text: "Anki deck", Done: true, IsRecurrent: true}}

	res, err := s.CompleteReview([]models.Review{last}, "x-30")
	if err != nil {
		t.Fatalf("CompleteReview() error = %v", err)
	}
	if res.Carried != nil {
		t.Errorf("Carried = %+v, want nil", res.Carried)
	}
}

func TestReopenReview(t *testing.T) {
	r := card("r", "b", "2025-01-01", models.ReviewNew, 30, 1)
	if _, err := ReopenReview(r); !errors.Is(err, ErrNotDone) {
		t.Errorf("ReopenReview(pending) error = %v, want ErrNotDone", err)
	}

	now := fixedNow
	r.Status = models.StatusDone
	r.CompletedAt = &now
	reopened, err := ReopenReview(r)
	if err != nil {
		t.Fatalf("ReopenReview() error = %v", err)
	}
	if reopened.IsDone() || reopened.CompletedAt != nil {
		t.Errorf("reopened = %+v", reopened)
	}
}

func TestSubtaskEditing(t *testing.T) {
	s := newTestScheduler(t, fixedNow)
	r := card("r", "b", "2025-01-01", models.ReviewNew, 30, 1)

	if _, err := s.AddSubtask(r, "   ", false); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("AddSubtask(blank) error = %v, want ErrInvalidEntry", err)
	}

	r, err := s.AddSubtask(r, " Draw nephron ", true)
	if err != nil {
		t.Fatalf("AddSubtask() error = %v", err)
	}
	if len(r.Subtasks) != 1 || r.Subtasks[0].Text != "Draw nephron" || !r.Subtasks[0].IsRecurrent {
		t.Fatalf("subtasks = %+v", r.Subtasks)
	}
	id := r.Subtasks[0].ID

	r, err = ToggleSubtask(r, id)
	if err != nil || !r.Subtasks[0].Done {
		t.Errorf("ToggleSubtask() = %+v, %v", r.Subtasks, err)
	}
	if _, err := ToggleSubtask(r, "nope"); !errors.Is(err, ErrSubtaskNotFound) {
		t.Errorf("ToggleSubtask(missing) error = %v, want ErrSubtaskNotFound", err)
	}

	r, err = RemoveSubtask(r, id)
	if err != nil {
		t.Fatalf("RemoveSubtask() error = %v", err)
	}
	if r.Subtasks != nil {
		t.Errorf("subtasks after removal = %+v, want nil", r.Subtasks)
	}
	if _, err := RemoveSubtask(r, id); !errors.Is(err, ErrSubtaskNotFound) {
		t.Errorf("RemoveSubtask(missing) error = %v, want ErrSubtaskNotFound", err)
	}
}
