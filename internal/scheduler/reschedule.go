package scheduler

import (
	"fmt"
	"sort"

	"github.com/julianstephens/recall/internal/constants"
	"github.com/julianstephens/recall/internal/models"
	"github.com/julianstephens/recall/internal/utils"
)

// RescheduleResult describes a realignment. Updated holds the final state of
// every record whose date changed.
type RescheduleResult struct {
	Overdue      int
	Shift        int
	ShiftedCount int
	Cascaded     int
	Updated      []models.Review
}

// RescheduleOverdue moves every train that has an overdue pending record so
// its earliest overdue record lands on targetDate, keeping the spacing
// between pending members, then rebalances overloaded days with a waterfall.
// It is a no-op when nothing is overdue.
func RescheduleOverdue(reviews []models.Review, settings models.Settings, today, targetDate string) (RescheduleResult, error) {
	if !utils.IsValidDate(targetDate) {
		return RescheduleResult{}, fmt.Errorf("%w: %q (expected YYYY-MM-DD)", ErrInvalidTarget, targetDate)
	}

	affected := make(map[string]bool)
	earliest := ""
	overdue := 0
	for _, r := range reviews {
		if r.IsDone() || r.Date >= today {
			continue
		}
		overdue++
		affected[TrainKey(r)] = true
		if earliest == "" || r.Date < earliest {
			earliest = r.Date
		}
	}
	if overdue == 0 {
		return RescheduleResult{}, nil
	}

	shift, err := utils.DaysBetween(earliest, targetDate)
	if err != nil {
		return RescheduleResult{}, err
	}
	if shift <= 0 {
		return RescheduleResult{}, fmt.Errorf("%w: %s must be after the earliest overdue date %s", ErrInvalidTarget, targetDate, earliest)
	}

	working := models.CloneReviews(reviews)
	original := make(map[string]string, len(reviews))
	lastShifted := targetDate
	shifted := 0

	for i := range working {
		r := &working[i]
		original[r.ID] = r.Date
		if r.IsDone() || !affected[TrainKey(*r)] {
			continue
		}
		next, err := utils.AddDays(r.Date, shift)
		if err != nil {
			return RescheduleResult{}, fmt.Errorf("review %s: %w", r.ID, err)
		}
		r.Date = next
		r.IsTemporary = false
		r.OriginalDate = ""
		shifted++
		if next > lastShifted {
			lastShifted = next
		}
	}

	cascaded := Waterfall(working, settings.DailyCapacityMin, targetDate, lastShifted)

	result := RescheduleResult{
		Overdue:      overdue,
		Shift:        shift,
		ShiftedCount: shifted,
		Cascaded:     cascaded,
	}
	for _, r := range working {
		if r.Date != original[r.ID] {
			result.Updated = append(result.Updated, r)
		}
	}
	sort.Slice(result.Updated, func(i, j int) bool {
		a, b := result.Updated[i], result.Updated[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.ID < b.ID
	})
	return result, nil
}

// Waterfall walks forward from start, at most WaterfallMaxIterations days.
// On each day whose pending load exceeds capacity it pushes the lowest
// priority records (highest cycle index, then highest id) to the next day
// until the day fits. A day always keeps at least one record: a record larger
// than capacity would otherwise be pushed to every following day, so it stays
// put and the day is left over capacity. The walk stops once it is past until and the
// previous day spilled nothing. Records are modified in place; the number of
// moves is returned.
func Waterfall(reviews []models.Review, capacity int, start, until string) int {
	if capacity <= 0 {
		return 0
	}

	moves := 0
	day := start
	for i := 0; i < constants.WaterfallMaxIterations; i++ {
		var idx []int
		load := 0
		for j := range reviews {
			if reviews[j].Date == day && !reviews[j].IsDone() {
				idx = append(idx, j)
				load += reviews[j].TimeMin
			}
		}

		next := utils.MustAddDays(day, 1)
		spilled := false
		if load > capacity {
			sort.SliceStable(idx, func(a, b int) bool {
				ra, rb := reviews[idx[a]], reviews[idx[b]]
				if ra.CycleIndex != rb.CycleIndex {
					return ra.CycleIndex > rb.CycleIndex
				}
				return ra.ID > rb.ID
			})
			for k := 0; load > capacity && k < len(idx)-1; k++ {
				r := &reviews[idx[k]]
				r.Date = next
				r.IsTemporary = false
				r.OriginalDate = ""
				load -= r.TimeMin
				moves++
				spilled = true
			}
		}

		if !spilled && day >= until {
			break
		}
		day = next
	}
	return moves
}
