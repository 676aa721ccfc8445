package scheduler

import (
	"fmt"
	"strings"

	"github.com/julianstephens/recall/internal/models"
)

// CompletionResult holds the completed card and, when recurrent subtasks
// were carried forward, the next pending card of its train.
type CompletionResult struct {
	Review  models.Review
	Carried *models.Review
}

func findReview(reviews []models.Review, id string) (models.Review, error) {
	for _, r := range reviews {
		if r.ID == id {
			return r.Clone(), nil
		}
	}
	return models.Review{}, fmt.Errorf("%w: %s", ErrReviewNotFound, id)
}

// CompleteReview marks a card done. It is refused while any subtask is
// pending. A completed loan stays on the day it was done. Recurrent subtasks
// are copied, unchecked, to the next pending card in the same train.
func (s *Scheduler) CompleteReview(reviews []models.Review, id string) (CompletionResult, error) {
	r, err := findReview(reviews, id)
	if err != nil {
		return CompletionResult{}, err
	}
	if r.IsDone() {
		return CompletionResult{}, fmt.Errorf("%w: %s", ErrAlreadyDone, id)
	}
	if guard := models.CanComplete(r); !guard.Allowed {
		return CompletionResult{}, fmt.Errorf("%w: %s", ErrPendingSubtasks, guard.Reason)
	}

	now := s.now()
	r.Status = models.StatusDone
	r.CompletedAt = &now
	r.IsTemporary = false
	r.OriginalDate = ""

	result := CompletionResult{Review: r}

	var recurrent []models.Subtask
	for _, st := range r.Subtasks {
		if st.IsRecurrent {
			recurrent = append(recurrent, st)
		}
	}
	if len(recurrent) == 0 {
		return result, nil
	}

	train, ok := TrainOf(reviews, id)
	if !ok {
		return result, nil
	}
	next, ok := train.NextPending(id)
	if !ok {
		return result, nil
	}

	existing := make(map[string]bool, len(next.Subtasks))
	for _, st := range next.Subtasks {
		existing[strings.ToLower(st.Text)] = true
	}
	added := false
	for _, st := range recurrent {
		if existing[strings.ToLower(st.Text)] {
			continue
		}
		next.Subtasks = append(next.Subtasks, models.Subtask{
			ID:          s.newID(),
			Text:        st.Text,
			IsRecurrent: true,
		})
		added = true
	}
	if added {
		result.Carried = &next
	}
	return result, nil
}

// ReopenReview reverts a done card to pending.
func ReopenReview(r models.Review) (models.Review, error) {
	if !r.IsDone() {
		return r, fmt.Errorf("%w: %s", ErrNotDone, r.ID)
	}
	reopened := r.Clone()
	reopened.Status = models.StatusPending
	reopened.CompletedAt = nil
	return reopened, nil
}

// AddSubtask appends a checklist item.
func (s *Scheduler) AddSubtask(r models.Review, text string, recurrent bool) (models.Review, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return r, fmt.Errorf("%w: subtask text cannot be empty", ErrInvalidEntry)
	}
	out := r.Clone()
	out.Subtasks = append(out.Subtasks, models.Subtask{
		ID:          s.newID(),
		Text:        text,
		IsRecurrent: recurrent,
	})
	return out, nil
}

// ToggleSubtask flips the done flag of one checklist item.
func ToggleSubtask(r models.Review, subtaskID string) (models.Review, error) {
	out := r.Clone()
	for i := range out.Subtasks {
		if out.Subtasks[i].ID == subtaskID {
			out.Subtasks[i].Done = !out.Subtasks[i].Done
			return out, nil
		}
	}
	return r, fmt.Errorf("%w: %s", ErrSubtaskNotFound, subtaskID)
}

// RemoveSubtask deletes one checklist item.
func RemoveSubtask(r models.Review, subtaskID string) (models.Review, error) {
	out := r.Clone()
	for i := range out.Subtasks {
		if out.Subtasks[i].ID == subtaskID {
			out.Subtasks = append(out.Subtasks[:i], out.Subtasks[i+1:]...)
			if len(out.Subtasks) == 0 {
				out.Subtasks = nil
			}
			return out, nil
		}
	}
	return r, fmt.Errorf("%w: %s", ErrSubtaskNotFound, subtaskID)
}
