package scheduler

import (
	"errors"
	"testing"

	"github.com/julianstephens/recall/internal/models"
)

func TestApplyMove(t *testing.T) {
	const today = "2025-01-10"
	base := card("r", "b", "2025-01-14", models.Review7Day, 10, 1)

	loan, err := ApplyMove(base, today, today)
	if err != nil {
		t.Fatalf("ApplyMove() error = %v", err)
	}
	if !loan.IsTemporary || loan.OriginalDate != "2025-01-14" || loan.Date != today {
		t.Errorf("borrow = %+v", loan)
	}
	if base.IsTemporary {
		t.Error("ApplyMove mutated its input")
	}

	away, err := ApplyMove(loan, "2025-01-20", today)
	if err != nil {
		t.Fatalf("ApplyMove() error = %v", err)
	}
	if away.IsTemporary || away.OriginalDate != "" || away.Date != "2025-01-20" {
		t.Errorf("move away = %+v", away)
	}

	same, err := ApplyMove(loan, today, today)
	if err != nil {
		t.Fatalf("ApplyMove() error = %v", err)
	}
	if !same.IsTemporary || same.OriginalDate != "2025-01-14" {
		t.Errorf("same-day move changed the loan: %+v", same)
	}

	if _, err := ApplyMove(base, "2025/01/20", today); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("ApplyMove(bad date) error = %v, want ErrInvalidTarget", err)
	}
}

func TestApplyMove_DoneRecordIsNotALoan(t *testing.T) {
	r := card("r", "b", "2025-01-14", models.Review7Day, 10, 1)
	r.Status = models.StatusDone
	moved, err := ApplyMove(r, "2025-01-10", "2025-01-10")
	if err != nil {
		t.Fatalf("ApplyMove() error = %v", err)
	}
	if moved.IsTemporary {
		t.Error("done record became a loan")
	}
}

func TestReconcileBorrowed(t *testing.T) {
	expired := card("expired", "b1", "2025-01-09", models.Review24H, 10, 1)
	expired.IsTemporary = true
	expired.OriginalDate = "2025-01-12"

	current := card("current", "b2", "2025-01-10", models.Review24H, 10, 1)
	current.IsTemporary = true
	current.OriginalDate = "2025-01-15"

	done := card("done", "b3", "2025-01-09", models.Review24H, 10, 1)
	done.IsTemporary = true
	done.OriginalDate = "2025-01-11"
	done.Status = models.StatusDone

	plain := card("plain", "b4", "2025-01-08", models.Review24H, 10, 1)

	got := ReconcileBorrowed([]models.Review{expired, current, done, plain}, "2025-01-10")
	if len(got) != 1 {
		t.Fatalf("ReconcileBorrowed() = %d records, want 1", len(got))
	}
	r := got[0]
	if r.ID != "expired" || r.Date != "2025-01-12" || r.IsTemporary || r.OriginalDate != "" {
		t.Errorf("restored = %+v", r)
	}
}
