package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/recall/internal/constants"
	"github.com/julianstephens/recall/internal/models"
	"github.com/julianstephens/recall/internal/scheduler"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateCycleIndex ConflictType = "duplicate_cycle_index"
	ConflictOvercommitted       ConflictType = "overcommitted"
	ConflictBrokenTrain         ConflictType = "broken_train"
	ConflictStaleLoan           ConflictType = "stale_loan"
	ConflictMissingSubject      ConflictType = "missing_subject"
	ConflictInvalidRecord       ConflictType = "invalid_record"
)

// Conflict represents a detected problem in the stored reviews
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	Items       []string // Topics involved
	ReviewIDs   []string // IDs of reviews involved (for auto-fixing)
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// ByType returns the conflicts of one type.
func (vr *ValidationResult) ByType(t ConflictType) []Conflict {
	var out []Conflict
	for _, c := range vr.Conflicts {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks a store snapshot for inconsistent data
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateReviews runs every whole-store check. today is the current date in
// the configured timezone and decides which loans are stale.
func (v *Validator) ValidateReviews(reviews []models.Review, subjects []models.Subject, settings models.Settings, today string) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	valid := make([]models.Review, 0, len(reviews))
	for _, r := range reviews {
		if err := r.Validate(); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidRecord,
				Description: fmt.Sprintf("Review %s (%s): %v", r.ID, label(r), err),
				Date:        r.Date,
				Items:       []string{label(r)},
				ReviewIDs:   []string{r.ID},
			})
			continue
		}
		valid = append(valid, r)
	}

	result.Conflicts = append(result.Conflicts, checkCycleIndices(valid, settings)...)
	result.Conflicts = append(result.Conflicts, checkOvercommitted(valid, settings.DailyCapacityMin)...)
	result.Conflicts = append(result.Conflicts, checkTrains(valid)...)
	result.Conflicts = append(result.Conflicts, checkLoans(valid, today)...)
	result.Conflicts = append(result.Conflicts, checkSubjects(valid, subjects)...)

	return result
}

func checkCycleIndices(reviews []models.Review, settings models.Settings) []Conflict {
	var out []Conflict
	for _, r := range scheduler.DetectCycleConflicts(reviews, settings) {
		out = append(out, Conflict{
			Type:        ConflictDuplicateCycleIndex,
			Description: fmt.Sprintf("%s: \"%s\" reuses cycle index #%d", formatDate(r.Date), label(r), r.CycleIndex),
			Date:        r.Date,
			Items:       []string{label(r)},
			ReviewIDs:   []string{r.ID},
		})
	}
	return out
}

func checkOvercommitted(reviews []models.Review, capacity int) []Conflict {
	if capacity <= 0 {
		return nil
	}
	loads := scheduler.DayLoads(reviews)
	dates := make([]string, 0, len(loads))
	for date, load := range loads {
		if load > capacity {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)

	var out []Conflict
	for _, date := range dates {
		var items, ids []string
		for _, r := range reviews {
			if r.Date == date && !r.IsDone() {
				items = append(items, label(r))
				ids = append(ids, r.ID)
			}
		}
		out = append(out, Conflict{
			Type: ConflictOvercommitted,
			Description: fmt.Sprintf("%s: %d min scheduled exceeds %d min capacity by %d min",
				formatDate(date), loads[date], capacity, loads[date]-capacity),
			Date:      date,
			Items:     items,
			ReviewIDs: ids,
		})
	}
	return out
}

func checkTrains(reviews []models.Review) []Conflict {
	var out []Conflict
	for _, train := range scheduler.BuildTrains(reviews) {
		for _, inv := range train.Inversions() {
			out = append(out, Conflict{
				Type: ConflictBrokenTrain,
				Description: fmt.Sprintf("%s: %s review of \"%s\" on %s comes after the %s review on %s",
					train.Key, typeLabel(inv.Earlier.Type), label(inv.Earlier), inv.Earlier.Date,
					typeLabel(inv.Later.Type), inv.Later.Date),
				Date:      inv.Earlier.Date,
				Items:     []string{label(inv.Earlier)},
				ReviewIDs: []string{inv.Earlier.ID, inv.Later.ID},
			})
		}
	}
	return out
}

func checkLoans(reviews []models.Review, today string) []Conflict {
	var out []Conflict
	for _, r := range reviews {
		if !r.IsTemporary || r.IsDone() {
			continue
		}
		switch {
		case r.OriginalDate == "":
			out = append(out, Conflict{
				Type:        ConflictStaleLoan,
				Description: fmt.Sprintf("%s: borrowed \"%s\" has no original date", formatDate(r.Date), label(r)),
				Date:        r.Date,
				Items:       []string{label(r)},
				ReviewIDs:   []string{r.ID},
			})
		case r.Date < today:
			out = append(out, Conflict{
				Type: ConflictStaleLoan,
				Description: fmt.Sprintf("%s: borrowed \"%s\" was not completed and should return to %s",
					formatDate(r.Date), label(r), r.OriginalDate),
				Date:      r.Date,
				Items:     []string{label(r)},
				ReviewIDs: []string{r.ID},
			})
		}
	}
	return out
}

func checkSubjects(reviews []models.Review, subjects []models.Subject) []Conflict {
	known := make(map[string]bool, len(subjects))
	for _, s := range subjects {
		known[s.ID] = true
	}
	var out []Conflict
	for _, r := range reviews {
		if r.SubjectID == "" || known[r.SubjectID] {
			continue
		}
		out = append(out, Conflict{
			Type:        ConflictMissingSubject,
			Description: fmt.Sprintf("%s: \"%s\" references missing subject ID: %s", formatDate(r.Date), label(r), r.SubjectID),
			Date:        r.Date,
			Items:       []string{label(r)},
			ReviewIDs:   []string{r.ID},
		})
	}
	return out
}

// label is the name shown for a review in reports.
func label(r models.Review) string {
	switch {
	case r.Topic != "" && r.SubjectName != "":
		return r.SubjectName + " / " + r.Topic
	case r.Topic != "":
		return r.Topic
	case r.SubjectName != "":
		return r.SubjectName
	default:
		return r.ID
	}
}

func typeLabel(t models.ReviewType) string {
	if t == models.ReviewLegacy {
		return "legacy"
	}
	return string(t)
}

func formatDate(date string) string {
	t, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return date
	}
	return t.Format("Mon Jan 2")
}
