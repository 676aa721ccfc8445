package validation

import (
	"fmt"

	"github.com/julianstephens/recall/internal/models"
	"github.com/julianstephens/recall/internal/scheduler"
)

type WarningKind string

const (
	WarningCapacity   WarningKind = "capacity"
	WarningChronology WarningKind = "chronology"
)

// Warning is an advisory result of a proposed move. The move is still
// allowed; the caller decides whether to ask for confirmation.
type Warning struct {
	Kind    WarningKind
	Message string

	// Capacity warnings
	ProjectedLoad int
	Capacity      int
	Excess        int

	// Chronology warnings
	Sibling *models.Review
}

func (w Warning) String() string {
	return w.Message
}

// CheckMoveConstraints reports what would go wrong if r moved to targetDate.
// The capacity check counts every other pending record on the target day;
// the chronology check compares r against the other members of its train.
func CheckMoveConstraints(r models.Review, targetDate string, reviews []models.Review, settings models.Settings) []Warning {
	var warnings []Warning
	if targetDate == r.Date {
		return warnings
	}

	if !r.IsDone() && settings.DailyCapacityMin > 0 {
		load := r.TimeMin
		for _, other := range reviews {
			if other.ID != r.ID && other.Date == targetDate && !other.IsDone() {
				load += other.TimeMin
			}
		}
		if load > settings.DailyCapacityMin {
			warnings = append(warnings, Warning{
				Kind: WarningCapacity,
				Message: fmt.Sprintf("%s would carry %d min, %d over the %d min capacity",
					targetDate, load, load-settings.DailyCapacityMin, settings.DailyCapacityMin),
				ProjectedLoad: load,
				Capacity:      settings.DailyCapacityMin,
				Excess:        load - settings.DailyCapacityMin,
			})
		}
	}

	stage := r.Type.Stage()
	if stage < 0 {
		return warnings
	}
	train, ok := scheduler.TrainOf(reviews, r.ID)
	if !ok {
		return warnings
	}
	for _, sibling := range train.Members() {
		if sibling.ID == r.ID {
			continue
		}
		s := sibling.Type.Stage()
		if s < 0 || s == stage {
			continue
		}
		var msg string
		switch {
		case s < stage && sibling.Date > targetDate:
			msg = fmt.Sprintf("%s review would land before the earlier %s review on %s", typeLabel(r.Type), typeLabel(sibling.Type), sibling.Date)
		case s > stage && sibling.Date < targetDate:
			msg = fmt.Sprintf("%s review would land after the later %s review on %s", typeLabel(r.Type), typeLabel(sibling.Type), sibling.Date)
		default:
			continue
		}
		sib := sibling.Clone()
		warnings = append(warnings, Warning{
			Kind:    WarningChronology,
			Message: msg,
			Sibling: &sib,
		})
	}
	return warnings
}

// HasKind reports whether any warning is of the given kind.
func HasKind(warnings []Warning, kind WarningKind) bool {
	for _, w := range warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}
