package planner

import (
	"fmt"

	"github.com/julianstephens/recall/internal/constants"
	"github.com/julianstephens/recall/internal/logger"
	"github.com/julianstephens/recall/internal/models"
	"github.com/julianstephens/recall/internal/scheduler"
	"github.com/julianstephens/recall/internal/utils"
	"github.com/julianstephens/recall/internal/validation"
)

// Reschedule realigns overdue trains onto targetDate (today when empty).
func (p *Planner) Reschedule(targetDate string) (scheduler.RescheduleResult, error) {
	snap, err := p.snapshot()
	if err != nil {
		return scheduler.RescheduleResult{}, err
	}
	if targetDate == "" {
		targetDate = snap.today
	}

	res, err := scheduler.RescheduleOverdue(snap.reviews, snap.settings, snap.today, targetDate)
	if err != nil || len(res.Updated) == 0 {
		return res, err
	}

	p.backup("reschedule")
	if err := p.store.UpdateReviews(res.Updated); err != nil {
		return res, fmt.Errorf("failed to save rescheduled reviews: %w", err)
	}
	logger.Info("overdue reviews rescheduled",
		"target", targetDate,
		"shift", res.Shift,
		"shifted", res.ShiftedCount,
		"cascaded", res.Cascaded)
	return res, nil
}

// StartCycle begins a new numbered cycle on date (today when empty).
func (p *Planner) StartCycle(date string) (models.Settings, error) {
	settings, err := p.store.GetSettings()
	if err != nil {
		return settings, fmt.Errorf("failed to load settings: %w", err)
	}
	if date == "" {
		if date, err = p.sched.Today(settings); err != nil {
			return settings, err
		}
	}
	if !utils.IsValidDate(date) {
		return settings, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", date)
	}
	settings.CycleStartDate = date
	if err := p.store.SaveSettings(settings); err != nil {
		return settings, fmt.Errorf("failed to save settings: %w", err)
	}
	logger.Info("cycle started", "date", date)
	return settings, nil
}

type CycleStatus struct {
	StartDate      string
	CurrentIndex   int
	Conflicts      []models.Review
	Profile        models.Profile
	State          models.CycleState
	SuggestedState models.CycleState
	Today          string
}

func (p *Planner) CycleStatus() (CycleStatus, error) {
	snap, err := p.snapshot()
	if err != nil {
		return CycleStatus{}, err
	}
	return CycleStatus{
		StartDate:      snap.settings.CycleStartDate,
		CurrentIndex:   scheduler.CurrentCycleIndex(snap.reviews, snap.settings),
		Conflicts:      scheduler.DetectCycleConflicts(snap.reviews, snap.settings),
		Profile:        snap.settings.Profile,
		State:          snap.settings.CycleState,
		SuggestedState: scheduler.SuggestCycleState(snap.settings, snap.today),
		Today:          snap.today,
	}, nil
}

// SetCycleState records the pendular phase the user chose.
func (p *Planner) SetCycleState(state models.CycleState) error {
	_, err := p.UpdateSettings(map[string]string{constants.SettingCycleState: string(state)})
	return err
}

// RepairCycle renumbers duplicate cycle indices.
func (p *Planner) RepairCycle(mode scheduler.RepairMode) (scheduler.RepairResult, error) {
	snap, err := p.snapshot()
	if err != nil {
		return scheduler.RepairResult{}, err
	}
	res, err := scheduler.RepairCycleConflicts(snap.reviews, snap.settings, mode)
	if err != nil || len(res.Updated) == 0 {
		return res, err
	}

	p.backup("cycle repair")
	if err := p.store.UpdateReviews(res.Updated); err != nil {
		return res, fmt.Errorf("failed to save repaired reviews: %w", err)
	}
	logger.Info("cycle conflicts repaired", "mode", mode, "batches", res.ChangedBatches, "records", len(res.Updated))
	return res, nil
}

// ReconcileLoans returns expired borrowed attempts to their original day.
// It runs at startup.
func (p *Planner) ReconcileLoans() ([]models.Review, error) {
	snap, err := p.snapshot()
	if err != nil {
		return nil, err
	}
	restored := scheduler.ReconcileBorrowed(snap.reviews, snap.today)
	if len(restored) == 0 {
		return nil, nil
	}
	if err := p.store.UpdateReviews(restored); err != nil {
		return nil, fmt.Errorf("failed to restore borrowed reviews: %w", err)
	}
	logger.Info("borrowed reviews returned", "count", len(restored))
	return restored, nil
}

// Validate runs the whole-store data checks.
func (p *Planner) Validate() (validation.ValidationResult, error) {
	snap, err := p.snapshot()
	if err != nil {
		return validation.ValidationResult{}, err
	}
	subjects, err := p.store.GetAllSubjects(true)
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to load subjects: %w", err)
	}
	return p.validator.ValidateReviews(snap.reviews, subjects, snap.settings, snap.today), nil
}
