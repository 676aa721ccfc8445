package planner

import (
	"sort"
	"strings"

	"github.com/julianstephens/recall/internal/models"
	"github.com/julianstephens/recall/internal/scheduler"
	"github.com/julianstephens/recall/internal/utils"
)

// Board is the kanban view of the store around today.
type Board struct {
	Today    string
	Capacity int
	// TodayLoad is the pending minutes due today.
	TodayLoad int
	Overdue   []models.Review
	DueToday  []models.Review
	Upcoming  []models.Review
	Done      []models.Review
}

// Borrowed returns the loans currently sitting on today.
func (b Board) Borrowed() []models.Review {
	var out []models.Review
	for _, r := range b.DueToday {
		if r.IsTemporary {
			out = append(out, r)
		}
	}
	return out
}

// Board groups reviews into columns. Upcoming covers the next days days;
// Done holds the reviews completed for today.
func (p *Planner) Board(days int) (Board, error) {
	snap, err := p.snapshot()
	if err != nil {
		return Board{}, err
	}
	horizon := utils.MustAddDays(snap.today, days)

	b := Board{Today: snap.today, Capacity: snap.settings.DailyCapacityMin}
	for _, r := range snap.reviews {
		switch {
		case r.IsDone():
			if r.Date == snap.today {
				b.Done = append(b.Done, r)
			}
		case r.Date < snap.today:
			b.Overdue = append(b.Overdue, r)
		case r.Date == snap.today:
			b.DueToday = append(b.DueToday, r)
		case r.Date <= horizon:
			b.Upcoming = append(b.Upcoming, r)
		}
	}
	b.TodayLoad = scheduler.DayLoads(b.DueToday)[snap.today]
	return b, nil
}

// ReviewFilter narrows ListReviews. Empty fields match everything.
type ReviewFilter struct {
	From    string
	To      string
	Status  models.ReviewStatus
	Subject string // id or case-insensitive name
	BatchID string
}

func (f ReviewFilter) match(r models.Review) bool {
	if f.From != "" && r.Date < f.From {
		return false
	}
	if f.To != "" && r.Date > f.To {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Subject != "" && r.SubjectID != f.Subject && !strings.EqualFold(r.SubjectName, f.Subject) {
		return false
	}
	if f.BatchID != "" && r.BatchID != f.BatchID {
		return false
	}
	return true
}

func (p *Planner) ListReviews(filter ReviewFilter) ([]models.Review, error) {
	reviews, err := p.store.GetAllReviews()
	if err != nil {
		return nil, err
	}
	var out []models.Review
	for _, r := range reviews {
		if filter.match(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out, nil
}
