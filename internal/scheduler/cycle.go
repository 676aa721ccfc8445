package scheduler

import (
	"fmt"
	"sort"

	"github.com/julianstephens/recall/internal/models"
)

// RepairMode selects how duplicate cycle indices are renumbered.
type RepairMode string

const (
	// RepairChronological renumbers every acquisition in the cycle 1..N by date.
	RepairChronological RepairMode = "chronological"
	// RepairAppend keeps existing indices and moves each duplicate past the current max.
	RepairAppend RepairMode = "append"
)

// ParseRepairMode validates a user-supplied mode name.
func ParseRepairMode(s string) (RepairMode, error) {
	switch RepairMode(s) {
	case RepairChronological, RepairAppend:
		return RepairMode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRepairMode, s)
	}
}

func inCycle(r models.Review, settings models.Settings) bool {
	return settings.HasCycle() && r.Date >= settings.CycleStartDate
}

// AssignCycleIndex returns the index for a new acquisition card dated
// targetDate: 1 before any cycle is started (or for dates before its start),
// otherwise one more than the highest index used inside the cycle.
func AssignCycleIndex(reviews []models.Review, settings models.Settings, targetDate string) int {
	if !settings.HasCycle() || targetDate < settings.CycleStartDate {
		return 1
	}
	return maxCycleIndex(reviews, settings) + 1
}

// CurrentCycleIndex is the highest index used in the current cycle, 0 if none.
func CurrentCycleIndex(reviews []models.Review, settings models.Settings) int {
	if !settings.HasCycle() {
		return 0
	}
	return maxCycleIndex(reviews, settings)
}

// maxCycleIndex only looks at acquisition cards (and untyped legacy
// records) inside the cycle. Review cards of trains acquired before the
// cycle keep their old index and must not count.
func maxCycleIndex(reviews []models.Review, settings models.Settings) int {
	highest := 0
	for _, r := range reviews {
		if !r.IsAcquisition() && r.Type != models.ReviewLegacy {
			continue
		}
		if inCycle(r, settings) && r.CycleIndex > highest {
			highest = r.CycleIndex
		}
	}
	return highest
}

// cycleAcquisitions returns the indexed acquisition cards inside the cycle,
// ordered by index with date, creation time and id as tie-breaks.
func cycleAcquisitions(reviews []models.Review, settings models.Settings) []models.Review {
	var out []models.Review
	for _, r := range reviews {
		if r.IsAcquisition() && inCycle(r, settings) && r.CycleIndex > 0 {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.CycleIndex != b.CycleIndex {
			return a.CycleIndex < b.CycleIndex
		}
		return chronoLess(a, b)
	})
	return out
}

func chronoLess(a, b models.Review) bool {
	if a.Date != b.Date {
		return a.Date < b.Date
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// DetectCycleConflicts returns every acquisition card whose cycle index was
// already taken by an earlier card in the same cycle.
func DetectCycleConflicts(reviews []models.Review, settings models.Settings) []models.Review {
	if !settings.HasCycle() {
		return nil
	}
	seen := make(map[int]bool)
	var conflicts []models.Review
	for _, r := range cycleAcquisitions(reviews, settings) {
		if seen[r.CycleIndex] {
			conflicts = append(conflicts, r.Clone())
			continue
		}
		seen[r.CycleIndex] = true
	}
	return conflicts
}

// RepairResult lists the records a repair renumbered.
type RepairResult struct {
	ChangedBatches int
	Updated        []models.Review
}

// RepairCycleConflicts renumbers duplicate cycle indices. Each new index is
// propagated to every sibling in the acquisition card's batch. It is a no-op
// when DetectCycleConflicts finds nothing.
func RepairCycleConflicts(reviews []models.Review, settings models.Settings, mode RepairMode) (RepairResult, error) {
	if _, err := ParseRepairMode(string(mode)); err != nil {
		return RepairResult{}, err
	}
	if len(DetectCycleConflicts(reviews, settings)) == 0 {
		return RepairResult{}, nil
	}

	assigned := make(map[string]int) // acquisition id -> new index
	switch mode {
	case RepairChronological:
		var acqs []models.Review
		for _, r := range reviews {
			if r.IsAcquisition() && inCycle(r, settings) {
				acqs = append(acqs, r)
			}
		}
		sort.SliceStable(acqs, func(i, j int) bool {
			a, b := acqs[i], acqs[j]
			if a.Date != b.Date {
				return a.Date < b.Date
			}
			if a.CycleIndex != b.CycleIndex {
				return a.CycleIndex < b.CycleIndex
			}
			return chronoLess(a, b)
		})
		for i, r := range acqs {
			if r.CycleIndex != i+1 {
				assigned[r.ID] = i + 1
			}
		}
	case RepairAppend:
		current := maxCycleIndex(reviews, settings)
		seen := make(map[int]bool)
		for _, r := range cycleAcquisitions(reviews, settings) {
			if !seen[r.CycleIndex] {
				seen[r.CycleIndex] = true
				continue
			}
			current++
			assigned[r.ID] = current
		}
	}

	return propagateIndices(reviews, assigned), nil
}

// propagateIndices applies the new acquisition indices to whole batches.
func propagateIndices(reviews []models.Review, assigned map[string]int) RepairResult {
	byTrain := make(map[string]int)
	for _, r := range reviews {
		if idx, ok := assigned[r.ID]; ok {
			byTrain[TrainKey(r)] = idx
		}
	}

	var result RepairResult
	for _, r := range reviews {
		idx, ok := byTrain[TrainKey(r)]
		if !ok || r.CycleIndex == idx {
			continue
		}
		updated := r.Clone()
		updated.CycleIndex = idx
		result.Updated = append(result.Updated, updated)
	}
	result.ChangedBatches = len(byTrain)
	sort.Slice(result.Updated, func(i, j int) bool {
		return result.Updated[i].ID < result.Updated[j].ID
	})
	return result
}
