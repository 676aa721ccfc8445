package scheduler

import (
	"fmt"
	"strings"

	"github.com/julianstephens/recall/internal/constants"
	"github.com/julianstephens/recall/internal/models"
	"github.com/julianstephens/recall/internal/utils"
)

// Entry is a logged study session.
type Entry struct {
	SubjectID    string
	SubjectName  string
	Color        string
	Topic        string
	StudyTimeMin int
	BaseDate     string // YYYY-MM-DD
	Complexity   models.Complexity
	Subtasks     []models.Subtask
	Link         string
	HTMLSummary  string
}

func (e Entry) validate(settings models.Settings) error {
	if strings.TrimSpace(e.SubjectName) == "" && strings.TrimSpace(e.Topic) == "" {
		return fmt.Errorf("%w: subject or topic is required", ErrInvalidEntry)
	}
	if e.StudyTimeMin <= 0 {
		return fmt.Errorf("%w: study time must be greater than zero", ErrInvalidEntry)
	}
	if !utils.IsValidDate(e.BaseDate) {
		return fmt.Errorf("%w: invalid date %q (expected YYYY-MM-DD)", ErrInvalidEntry, e.BaseDate)
	}
	switch e.Complexity {
	case "", models.ComplexityNormal, models.ComplexityHigh:
	default:
		return fmt.Errorf("%w: invalid complexity %q", ErrInvalidEntry, e.Complexity)
	}
	if settings.Profile == models.ProfilePendular && e.StudyTimeMin > constants.PendularSessionCapMin {
		return fmt.Errorf("%w: %d minutes (max %d)", ErrSessionTooLong, e.StudyTimeMin, constants.PendularSessionCapMin)
	}
	return nil
}

// Blocker explains why a projection was refused: the review on Date would
// push that day's load past the review ceiling.
type Blocker struct {
	Date          string
	Type          models.ReviewType
	ExistingLoad  int
	Estimated     int
	AttemptedLoad int
	Ceiling       int
}

func (b Blocker) String() string {
	return fmt.Sprintf("%s review on %s would bring the day to %d min (existing %d + %d), over the review ceiling of %d min",
		b.Type, b.Date, b.AttemptedLoad, b.ExistingLoad, b.Estimated, b.Ceiling)
}

// Projection is the all-or-nothing result of projecting a study entry.
// Exactly one of Records and Blocker is set.
type Projection struct {
	Records         []models.Review
	Blocker         *Blocker
	Settings        models.Settings
	SettingsChanged bool
}

// DayLoads sums the minutes of non-done reviews per date.
func DayLoads(reviews []models.Review) map[string]int {
	loads := make(map[string]int)
	for _, r := range reviews {
		if !r.IsDone() {
			loads[r.Date] += r.TimeMin
		}
	}
	return loads
}

// Project builds the acquisition card for entry plus one review per interval
// of the active profile. If any review would exceed the review ceiling on its
// day, no records are returned and Blocker describes the first breach.
func (s *Scheduler) Project(entry Entry, reviews []models.Review, settings models.Settings) (Projection, error) {
	result := Projection{Settings: settings}

	if err := entry.validate(settings); err != nil {
		return result, err
	}
	complexity := entry.Complexity
	if complexity == "" {
		complexity = models.ComplexityNormal
	}

	today, err := s.Today(settings)
	if err != nil {
		return result, err
	}

	batchID := s.newID()
	cycleIndex := AssignCycleIndex(reviews, settings, entry.BaseDate)
	createdAt := s.now()

	base := models.Review{
		SubjectID:   entry.SubjectID,
		SubjectName: entry.SubjectName,
		Color:       entry.Color,
		Topic:       entry.Topic,
		Status:      models.StatusPending,
		CycleIndex:  cycleIndex,
		BatchID:     batchID,
		Complexity:  complexity,
		CreatedAt:   createdAt,
	}

	acq := base.Clone()
	acq.ID = s.newID()
	acq.Type = models.ReviewNew
	acq.Date = entry.BaseDate
	acq.TimeMin = entry.StudyTimeMin
	acq.Subtasks = append([]models.Subtask(nil), entry.Subtasks...)
	acq.Link = entry.Link
	acq.HTMLSummary = entry.HTMLSummary

	records := []models.Review{acq}
	loads := DayLoads(reviews)
	ceiling := ReviewCeiling(settings.DailyCapacityMin)

	for _, iv := range Intervals(settings.Profile) {
		target, err := utils.AddDays(entry.BaseDate, iv.Days)
		if err != nil {
			return result, err
		}
		est := EstimateReviewTime(entry.StudyTimeMin, iv.Ratio, complexity)
		existing := loads[target]
		if existing+est > ceiling {
			result.Blocker = &Blocker{
				Date:          target,
				Type:          iv.Type,
				ExistingLoad:  existing,
				Estimated:     est,
				AttemptedLoad: existing + est,
				Ceiling:       ceiling,
			}
			return result, nil
		}

		r := base.Clone()
		r.ID = s.newID()
		r.Type = iv.Type
		r.Date = target
		r.TimeMin = est
		records = append(records, r)
	}

	if settings.Profile == models.ProfilePendular && entry.BaseDate <= today {
		result.Settings.LastAttackDate = entry.BaseDate
		result.SettingsChanged = settings.LastAttackDate != entry.BaseDate
	}

	result.Records = records
	return result, nil
}

// SuggestCycleState returns DEFENSE on the day after an attack under the
// pendular profile, ATTACK otherwise.
func SuggestCycleState(settings models.Settings, today string) models.CycleState {
	if settings.Profile != models.ProfilePendular || settings.LastAttackDate == "" {
		return models.CycleAttack
	}
	yesterday, err := utils.AddDays(today, -1)
	if err != nil {
		return models.CycleAttack
	}
	if settings.LastAttackDate == yesterday {
		return models.CycleDefense
	}
	return models.CycleAttack
}
