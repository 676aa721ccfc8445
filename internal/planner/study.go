package planner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/recall/internal/logger"
	"github.com/julianstephens/recall/internal/models"
	"github.com/julianstephens/recall/internal/scheduler"
	"github.com/julianstephens/recall/internal/storage"
	"github.com/julianstephens/recall/internal/validation"
)

// LogStudy projects a study entry and stores the whole batch. A ceiling
// breach is returned in Projection.Blocker with nothing written, not even
// an auto-created subject.
//
// The batch is written before the settings. A failed settings write after a
// committed batch only loses the pendular attack date, so it is logged and
// the projection is still returned.
func (p *Planner) LogStudy(entry scheduler.Entry) (scheduler.Projection, error) {
	created, err := p.resolveSubject(&entry)
	if err != nil {
		return scheduler.Projection{}, err
	}

	snap, err := p.snapshot()
	if err != nil {
		return scheduler.Projection{}, err
	}

	proj, err := p.sched.Project(entry, snap.reviews, snap.settings)
	if err != nil {
		return proj, err
	}
	if proj.Blocker != nil {
		logger.Warn("study entry blocked by review ceiling",
			"date", proj.Blocker.Date,
			"type", proj.Blocker.Type,
			"attempted", proj.Blocker.AttemptedLoad,
			"ceiling", proj.Blocker.Ceiling)
		return proj, nil
	}

	if created != nil {
		if err := p.store.AddSubject(*created); err != nil {
			return proj, fmt.Errorf("failed to save subject: %w", err)
		}
		logger.Info("subject added", "id", created.ID, "name", created.Name)
	}
	if err := p.store.AddReviews(proj.Records); err != nil {
		if created != nil {
			if derr := p.store.DeleteSubject(created.ID); derr != nil {
				logger.Warn("failed to remove subject of unsaved batch", "id", created.ID, "error", derr)
			}
		}
		return proj, fmt.Errorf("failed to save reviews: %w", err)
	}
	if proj.SettingsChanged {
		if err := p.store.SaveSettings(proj.Settings); err != nil {
			logger.Warn("batch saved but settings were not",
				"batch", proj.Records[0].BatchID,
				"last_attack_date", proj.Settings.LastAttackDate,
				"error", err)
		}
	}

	logger.Info("study logged",
		"batch", proj.Records[0].BatchID,
		"cycle", proj.Records[0].CycleIndex,
		"records", len(proj.Records))
	return proj, nil
}

// resolveSubject fills the denormalized subject fields from the store. A
// subject given only by name that does not exist yet is returned unsaved;
// the caller stores it together with the batch.
func (p *Planner) resolveSubject(entry *scheduler.Entry) (*models.Subject, error) {
	var (
		subject models.Subject
		created *models.Subject
		err     error
	)
	switch {
	case entry.SubjectID != "":
		subject, err = p.store.GetSubject(entry.SubjectID)
	case strings.TrimSpace(entry.SubjectName) != "":
		subject, err = p.store.GetSubjectByName(strings.TrimSpace(entry.SubjectName))
		if errors.Is(err, storage.ErrNotFound) {
			subject, err = p.newSubject(entry.SubjectName, entry.Color)
			created = &subject
		}
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if subject.Archived {
		return nil, fmt.Errorf("subject %q is archived", subject.Name)
	}
	entry.SubjectID = subject.ID
	entry.SubjectName = subject.Name
	entry.Color = subject.Color
	return created, nil
}

// CheckMove returns the advisory warnings for moving a review. Nothing is
// written.
func (p *Planner) CheckMove(id, targetDate string) (models.Review, []validation.Warning, error) {
	snap, err := p.snapshot()
	if err != nil {
		return models.Review{}, nil, err
	}
	r, err := p.store.GetReview(id)
	if err != nil {
		return models.Review{}, nil, err
	}
	return r, validation.CheckMoveConstraints(r, targetDate, snap.reviews, snap.settings), nil
}

// Move commits a relocation. Callers are expected to have shown the
// warnings from CheckMove first.
func (p *Planner) Move(id, targetDate string) (models.Review, error) {
	today, err := p.Today()
	if err != nil {
		return models.Review{}, err
	}
	r, err := p.store.GetReview(id)
	if err != nil {
		return models.Review{}, err
	}
	moved, err := scheduler.ApplyMove(r, targetDate, today)
	if err != nil {
		return r, err
	}
	if err := p.store.UpdateReview(moved); err != nil {
		return r, fmt.Errorf("failed to save review: %w", err)
	}
	logger.Info("review moved", "id", id, "from", r.Date, "to", moved.Date, "loan", moved.IsTemporary)
	return moved, nil
}

// Complete marks a review done and carries recurrent subtasks forward.
func (p *Planner) Complete(id string) (scheduler.CompletionResult, error) {
	reviews, err := p.store.GetAllReviews()
	if err != nil {
		return scheduler.CompletionResult{}, fmt.Errorf("failed to load reviews: %w", err)
	}
	res, err := p.sched.CompleteReview(reviews, id)
	if err != nil {
		if errors.Is(err, scheduler.ErrReviewNotFound) {
			return res, fmt.Errorf("%w: review %s", storage.ErrNotFound, id)
		}
		return res, err
	}

	updates := []models.Review{res.Review}
	if res.Carried != nil {
		updates = append(updates, *res.Carried)
	}
	if err := p.store.UpdateReviews(updates); err != nil {
		return res, fmt.Errorf("failed to save review: %w", err)
	}
	logger.Info("review completed", "id", id, "carried", res.Carried != nil)
	return res, nil
}

func (p *Planner) Reopen(id string) (models.Review, error) {
	return p.updateReview(id, "reopened", scheduler.ReopenReview)
}

func (p *Planner) AddSubtask(id, text string, recurrent bool) (models.Review, error) {
	return p.updateReview(id, "subtask added", func(r models.Review) (models.Review, error) {
		return p.sched.AddSubtask(r, text, recurrent)
	})
}

func (p *Planner) ToggleSubtask(id, subtaskID string) (models.Review, error) {
	return p.updateReview(id, "subtask toggled", func(r models.Review) (models.Review, error) {
		return scheduler.ToggleSubtask(r, subtaskID)
	})
}

func (p *Planner) RemoveSubtask(id, subtaskID string) (models.Review, error) {
	return p.updateReview(id, "subtask removed", func(r models.Review) (models.Review, error) {
		return scheduler.RemoveSubtask(r, subtaskID)
	})
}

// ReviewEdit holds optional field changes; nil fields are left alone.
type ReviewEdit struct {
	Topic       *string
	TimeMin     *int
	Link        *string
	HTMLSummary *string
}

func (p *Planner) EditReview(id string, edit ReviewEdit) (models.Review, error) {
	return p.updateReview(id, "review edited", func(r models.Review) (models.Review, error) {
		out := r.Clone()
		if edit.Topic != nil {
			out.Topic = strings.TrimSpace(*edit.Topic)
		}
		if edit.TimeMin != nil {
			if *edit.TimeMin <= 0 {
				return r, fmt.Errorf("%w: time must be greater than zero", scheduler.ErrInvalidEntry)
			}
			out.TimeMin = *edit.TimeMin
		}
		if edit.Link != nil {
			out.Link = strings.TrimSpace(*edit.Link)
		}
		if edit.HTMLSummary != nil {
			out.HTMLSummary = *edit.HTMLSummary
		}
		return out, nil
	})
}

func (p *Planner) updateReview(id, action string, fn func(models.Review) (models.Review, error)) (models.Review, error) {
	r, err := p.store.GetReview(id)
	if err != nil {
		return models.Review{}, err
	}
	updated, err := fn(r)
	if err != nil {
		return r, err
	}
	if err := p.store.UpdateReview(updated); err != nil {
		return r, fmt.Errorf("failed to save review: %w", err)
	}
	logger.Debug(action, "id", id)
	return updated, nil
}

func (p *Planner) GetReview(id string) (models.Review, error) {
	return p.store.GetReview(id)
}

func (p *Planner) DeleteReview(id string) error {
	if err := p.store.DeleteReview(id); err != nil {
		return err
	}
	logger.Info("review deleted", "id", id)
	return nil
}

// DeleteBatch removes an acquisition card and every review projected from it.
func (p *Planner) DeleteBatch(batchID string) (int, error) {
	reviews, err := p.store.GetReviewsByBatch(batchID)
	if err != nil {
		return 0, err
	}
	if len(reviews) == 0 {
		return 0, fmt.Errorf("%w: batch %s", storage.ErrNotFound, batchID)
	}
	ids := make([]string, len(reviews))
	for i, r := range reviews {
		ids[i] = r.ID
	}
	if err := p.store.DeleteReviews(ids); err != nil {
		return 0, err
	}
	logger.Info("batch deleted", "batch", batchID, "records", len(reviews))
	return len(reviews), nil
}
