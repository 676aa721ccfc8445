// Package scheduler is the spaced-repetition engine. Every function takes
// value snapshots of the store and returns new values; nothing here reads or
// writes storage.
package scheduler

import (
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/recall/internal/models"
	"github.com/julianstephens/recall/internal/utils"
)

// Scheduler carries the two impure inputs of the engine: the clock and the
// id generator.
type Scheduler struct {
	now   func() time.Time
	newID func() string
}

type Option func(*Scheduler)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Scheduler) {
		s.newID = gen
	}
}

func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the scheduler's current time.
func (s *Scheduler) Now() time.Time {
	return s.now()
}

// Today returns the current calendar date in the configured timezone.
func (s *Scheduler) Today(settings models.Settings) (string, error) {
	return utils.TodayAt(s.now(), settings.Timezone)
}

// NewID returns a fresh identifier from the scheduler's generator.
func (s *Scheduler) NewID() string {
	return s.newID()
}
