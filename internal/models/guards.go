package models

import (
	"fmt"
	"strings"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (g GuardResult) Error() error {
	if g.Allowed {
		return nil
	}
	return fmt.Errorf("%s", g.Reason)
}

// CanComplete evaluates whether a review can transition to DONE.
// Rules:
// - Review must not already be done
// - Every subtask must be done
func CanComplete(r Review) GuardResult {
	if r.IsDone() {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("review %s is already done", r.ID)}
	}

	pending := r.PendingSubtasks()
	if len(pending) > 0 {
		names := make([]string, len(pending))
		for i, st := range pending {
			names[i] = st.Text
		}
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("review %s has %d pending subtask(s): %s", r.ID, len(pending), strings.Join(names, ", ")),
		}
	}

	return GuardResult{Allowed: true}
}
