// Package planner is the application service of recall. Every operation
// reads a fresh snapshot from the store, runs the scheduling engine on it and
// writes the result back in one store call.
package planner

import (
	"fmt"

	"github.com/julianstephens/recall/internal/logger"
	"github.com/julianstephens/recall/internal/models"
	"github.com/julianstephens/recall/internal/scheduler"
	"github.com/julianstephens/recall/internal/storage"
	"github.com/julianstephens/recall/internal/utils"
	"github.com/julianstephens/recall/internal/validation"
)

// Backupper snapshots the store before destructive batch operations.
type Backupper interface {
	CreateBackup() (string, error)
}

type Planner struct {
	store     storage.Provider
	sched     *scheduler.Scheduler
	validator *validation.Validator
	backups   Backupper
}

type Option func(*Planner)

// WithScheduler replaces the default engine (used to pin the clock).
func WithScheduler(s *scheduler.Scheduler) Option {
	return func(p *Planner) {
		p.sched = s
	}
}

// WithBackups enables automatic backups before reschedule and repair.
func WithBackups(b Backupper) Option {
	return func(p *Planner) {
		p.backups = b
	}
}

func New(store storage.Provider, opts ...Option) *Planner {
	p := &Planner{
		store:     store,
		sched:     scheduler.New(),
		validator: validation.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Store exposes the underlying provider.
func (p *Planner) Store() storage.Provider {
	return p.store
}

// Scheduler exposes the engine.
func (p *Planner) Scheduler() *scheduler.Scheduler {
	return p.sched
}

type snapshot struct {
	settings models.Settings
	reviews  []models.Review
	today    string
}

func (p *Planner) snapshot() (snapshot, error) {
	settings, err := p.store.GetSettings()
	if err != nil {
		return snapshot{}, fmt.Errorf("failed to load settings: %w", err)
	}
	reviews, err := p.store.GetAllReviews()
	if err != nil {
		return snapshot{}, fmt.Errorf("failed to load reviews: %w", err)
	}
	today, err := p.sched.Today(settings)
	if err != nil {
		return snapshot{}, err
	}
	return snapshot{settings: settings, reviews: reviews, today: today}, nil
}

// Today returns the current date in the configured timezone.
func (p *Planner) Today() (string, error) {
	settings, err := p.store.GetSettings()
	if err != nil {
		return "", fmt.Errorf("failed to load settings: %w", err)
	}
	return p.sched.Today(settings)
}

func (p *Planner) Settings() (models.Settings, error) {
	return p.store.GetSettings()
}

// UpdateSettings applies key/value overrides and saves the result.
func (p *Planner) UpdateSettings(values map[string]string) (models.Settings, error) {
	current, err := p.store.GetSettings()
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	merged := models.SettingsToMap(current)
	for k, v := range values {
		if _, ok := merged[k]; !ok {
			return current, fmt.Errorf("unknown setting: %s", k)
		}
		merged[k] = v
	}
	updated, err := models.MapToSettings(merged)
	if err != nil {
		return current, err
	}
	if err := models.ValidateSettings(updated); err != nil {
		return current, err
	}
	if !utils.ValidateTimezone(updated.Timezone) {
		return current, fmt.Errorf("invalid timezone: %q", updated.Timezone)
	}
	for _, date := range []string{updated.CycleStartDate, updated.LastAttackDate} {
		if date != "" && !utils.IsValidDate(date) {
			return current, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", date)
		}
	}
	if err := p.store.SaveSettings(updated); err != nil {
		return current, fmt.Errorf("failed to save settings: %w", err)
	}
	logger.Info("settings updated", "keys", len(values))
	return updated, nil
}

// backup is best effort: a failed snapshot is logged and the operation
// continues.
func (p *Planner) backup(reason string) {
	if p.backups == nil {
		return
	}
	path, err := p.backups.CreateBackup()
	if err != nil {
		logger.Warn("automatic backup failed", "reason", reason, "error", err)
		return
	}
	logger.Debug("automatic backup created", "reason", reason, "path", path)
}
