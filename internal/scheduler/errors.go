package scheduler

import "errors"

// Sentinel errors for the scheduler package.
// Use errors.Is to check: errors.Is(err, scheduler.ErrInvalidTarget)
var (
	ErrInvalidEntry      = errors.New("scheduler: invalid study entry")
	ErrSessionTooLong    = errors.New("scheduler: study session exceeds the pendular cap")
	ErrInvalidTarget     = errors.New("scheduler: invalid target date")
	ErrPendingSubtasks   = errors.New("scheduler: review has pending subtasks")
	ErrUnknownRepairMode = errors.New("scheduler: unknown repair mode")
	ErrReviewNotFound    = errors.New("scheduler: review not found")
	ErrAlreadyDone       = errors.New("scheduler: review is already done")
	ErrNotDone           = errors.New("scheduler: review is not done")
	ErrSubtaskNotFound   = errors.New("scheduler: subtask not found")
)
