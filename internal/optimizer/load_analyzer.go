package optimizer

import (
	"fmt"
	"sort"

	"github.com/julianstephens/recall/internal/models"
	"github.com/julianstephens/recall/internal/scheduler"
	"github.com/julianstephens/recall/internal/storage"
	"github.com/julianstephens/recall/internal/utils"
)

// OptimizationType represents the type of optimization suggested
type OptimizationType string

const (
	OptimizationRebalanceDay      OptimizationType = "rebalance_day"
	OptimizationRescheduleOverdue OptimizationType = "reschedule_overdue"
	OptimizationRepairCycle       OptimizationType = "repair_cycle"
	OptimizationReturnLoans       OptimizationType = "return_loans"
	OptimizationRaiseCapacity     OptimizationType = "raise_capacity"
)

// capacityStep rounds suggested capacities up to whole half hours.
const capacityStep = 30

// Optimization represents an advisory change. Nothing is applied.
type Optimization struct {
	ReviewID       string           `json:"review_id,omitempty"`
	Topic          string           `json:"topic,omitempty"`
	Date           string           `json:"date,omitempty"`
	Type           OptimizationType `json:"type"`
	Reason         string           `json:"reason"`
	CurrentValue   interface{}      `json:"current_value,omitempty"`
	SuggestedValue interface{}      `json:"suggested_value,omitempty"`
}

// LoadAnalyzer looks at the upcoming study load and suggests changes
type LoadAnalyzer struct {
	store storage.Provider
	sched *scheduler.Scheduler
}

// NewLoadAnalyzer creates a new LoadAnalyzer
func NewLoadAnalyzer(store storage.Provider, sched *scheduler.Scheduler) *LoadAnalyzer {
	return &LoadAnalyzer{store: store, sched: sched}
}

// Analyze inspects today and the following days days.
func (la *LoadAnalyzer) Analyze(days int) ([]Optimization, error) {
	settings, err := la.store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	reviews, err := la.store.GetAllReviews()
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}
	today, err := la.sched.Today(settings)
	if err != nil {
		return nil, err
	}
	return AnalyzeReviews(reviews, settings, today, days), nil
}

// AnalyzeReviews is the pure form of Analyze.
func AnalyzeReviews(reviews []models.Review, settings models.Settings, today string, days int) []Optimization {
	if days < 1 {
		days = 1
	}
	horizon := utils.MustAddDays(today, days)

	var optimizations []Optimization
	optimizations = append(optimizations, overdue(reviews, today)...)
	optimizations = append(optimizations, staleLoans(reviews, today)...)
	optimizations = append(optimizations, cycleConflicts(reviews, settings)...)
	optimizations = append(optimizations, rebalance(reviews, settings.DailyCapacityMin, today, horizon)...)
	optimizations = append(optimizations, capacity(reviews, settings.DailyCapacityMin, today, days)...)
	return optimizations
}

func overdue(reviews []models.Review, today string) []Optimization {
	count := 0
	earliest := ""
	for _, r := range reviews {
		if r.IsDone() || r.Date >= today {
			continue
		}
		count++
		if earliest == "" || r.Date < earliest {
			earliest = r.Date
		}
	}
	if count == 0 {
		return nil
	}
	return []Optimization{{
		Date:           earliest,
		Type:           OptimizationRescheduleOverdue,
		Reason:         fmt.Sprintf("%d review(s) overdue since %s; run 'recall reschedule' to realign their trains", count, earliest),
		CurrentValue:   map[string]interface{}{"overdue": count},
		SuggestedValue: map[string]interface{}{"target_date": today},
	}}
}

func staleLoans(reviews []models.Review, today string) []Optimization {
	expired := scheduler.ReconcileBorrowed(reviews, today)
	if len(expired) == 0 {
		return nil
	}
	return []Optimization{{
		Type:         OptimizationReturnLoans,
		Reason:       fmt.Sprintf("%d borrowed review(s) were not finished and will return to their original day", len(expired)),
		CurrentValue: map[string]interface{}{"borrowed": len(expired)},
	}}
}

func cycleConflicts(reviews []models.Review, settings models.Settings) []Optimization {
	conflicts := scheduler.DetectCycleConflicts(reviews, settings)
	if len(conflicts) == 0 {
		return nil
	}
	return []Optimization{{
		Type:           OptimizationRepairCycle,
		Reason:         fmt.Sprintf("%d acquisition card(s) reuse a cycle index", len(conflicts)),
		CurrentValue:   map[string]interface{}{"conflicts": len(conflicts)},
		SuggestedValue: map[string]interface{}{"mode": string(scheduler.RepairAppend)},
	}}
}

// rebalance previews a waterfall over the window on a copy of the store and
// reports each record it would move.
func rebalance(reviews []models.Review, capacity int, today, horizon string) []Optimization {
	working := models.CloneReviews(reviews)
	before := make(map[string]string, len(working))
	for _, r := range working {
		before[r.ID] = r.Date
	}
	if scheduler.Waterfall(working, capacity, today, horizon) == 0 {
		return nil
	}

	var out []Optimization
	for _, r := range working {
		from := before[r.ID]
		if r.Date == from {
			continue
		}
		out = append(out, Optimization{
			ReviewID:       r.ID,
			Topic:          r.Topic,
			Date:           from,
			Type:           OptimizationRebalanceDay,
			Reason:         fmt.Sprintf("%s is over the %d min capacity; cycle #%d has the lowest priority", from, capacity, r.CycleIndex),
			CurrentValue:   map[string]interface{}{"date": from},
			SuggestedValue: map[string]interface{}{"date": r.Date},
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ReviewID < out[j].ReviewID
	})
	return out
}

// capacity suggests a larger daily budget when at least half of the window
// is over capacity.
func capacity(reviews []models.Review, current int, today string, days int) []Optimization {
	if current <= 0 {
		return nil
	}
	loads := scheduler.DayLoads(reviews)
	over := 0
	peak := 0
	for i := 0; i < days; i++ {
		load := loads[utils.MustAddDays(today, i)]
		if load > current {
			over++
		}
		if load > peak {
			peak = load
		}
	}
	if over*2 < days {
		return nil
	}
	suggested := (peak + capacityStep - 1) / capacityStep * capacityStep
	return []Optimization{{
		Type:           OptimizationRaiseCapacity,
		Reason:         fmt.Sprintf("%d of the next %d days exceed the %d min capacity", over, days, current),
		CurrentValue:   map[string]interface{}{"daily_capacity_min": current},
		SuggestedValue: map[string]interface{}{"daily_capacity_min": suggested},
	}}
}
