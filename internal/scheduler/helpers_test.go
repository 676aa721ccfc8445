package scheduler

import (
	"fmt"
	"testing"
	"time"

	"github.com/julianstephens/recall/internal/models"
)

// fixedNow is 2025-01-01 09:00 UTC.
var fixedNow = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

func newTestScheduler(t *testing.T, now time.Time) *Scheduler {
	t.Helper()
	n := 0
	return New(
		WithClock(func() time.Time { return now }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%03d", n)
		}),
	)
}

func testSettings() models.Settings {
	s := models.DefaultSettings()
	s.Timezone = "UTC"
	return s
}

func card(id, batch, date string, typ models.ReviewType, minutes, cycle int) models.Review {
	return models.Review{
		ID:          id,
		SubjectName: "Physiology",
		Topic:       "Renal",
		TimeMin:     minutes,
		Date:        date,
		Type:        typ,
		Status:      models.StatusPending,
		CycleIndex:  cycle,
		BatchID:     batch,
		Complexity:  models.ComplexityNormal,
		CreatedAt:   fixedNow,
	}
}

func byID(reviews []models.Review) map[string]models.Review {
	out := make(map[string]models.Review, len(reviews))
	for _, r := range reviews {
		out[r.ID] = r
	}
	return out
}

// apply overlays updates onto reviews, like a store write would.
func apply(reviews, updates []models.Review) []models.Review {
	idx := byID(updates)
	out := models.CloneReviews(reviews)
	for i := range out {
		if u, ok := idx[out[i].ID]; ok {
			out[i] = u
		}
	}
	return out
}
