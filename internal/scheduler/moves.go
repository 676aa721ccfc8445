package scheduler

import (
	"fmt"

	"github.com/julianstephens/recall/internal/models"
	"github.com/julianstephens/recall/internal/utils"
)

// ApplyMove commits a manual relocation. Pulling a pending card into today
// from another day makes it a loan: IsTemporary is set and OriginalDate keeps
// the first date it was borrowed from. Moving anywhere else clears the loan.
func ApplyMove(r models.Review, targetDate, today string) (models.Review, error) {
	if !utils.IsValidDate(targetDate) {
		return r, fmt.Errorf("%w: %q (expected YYYY-MM-DD)", ErrInvalidTarget, targetDate)
	}

	moved := r.Clone()
	if moved.Date == targetDate {
		return moved, nil
	}

	if targetDate == today && !moved.IsDone() {
		if !moved.IsTemporary || moved.OriginalDate == "" {
			moved.OriginalDate = moved.Date
		}
		moved.IsTemporary = true
	} else {
		moved.IsTemporary = false
		moved.OriginalDate = ""
	}
	moved.Date = targetDate
	return moved, nil
}

// ReconcileBorrowed returns the loans that expired unfinished: temporary,
// not done and dated before today. Each is snapped back to its original date.
func ReconcileBorrowed(reviews []models.Review, today string) []models.Review {
	var out []models.Review
	for _, r := range reviews {
		if !r.IsTemporary || r.IsDone() || r.Date >= today {
			continue
		}
		restored := r.Clone()
		if restored.OriginalDate != "" {
			restored.Date = restored.OriginalDate
		}
		restored.IsTemporary = false
		restored.OriginalDate = ""
		out = append(out, restored)
	}
	return out
}
