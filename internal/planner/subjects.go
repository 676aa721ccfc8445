package planner

import (
	"fmt"
	"strings"

	"github.com/julianstephens/recall/internal/logger"
	"github.com/julianstephens/recall/internal/models"
)

func (p *Planner) AddSubject(name, color string) (models.Subject, error) {
	subject, err := p.newSubject(name, color)
	if err != nil {
		return models.Subject{}, err
	}
	if err := p.store.AddSubject(subject); err != nil {
		return models.Subject{}, err
	}
	logger.Info("subject added", "id", subject.ID, "name", subject.Name)
	return subject, nil
}

// newSubject builds a validated subject without storing it.
func (p *Planner) newSubject(name, color string) (models.Subject, error) {
	subject := models.Subject{
		ID:        p.sched.NewID(),
		Name:      strings.TrimSpace(name),
		Color:     color,
		CreatedAt: p.sched.Now(),
	}
	if err := subject.Validate(); err != nil {
		return models.Subject{}, err
	}
	return subject, nil
}

// FindSubject looks a subject up by id, then by name.
func (p *Planner) FindSubject(ref string) (models.Subject, error) {
	if s, err := p.store.GetSubject(ref); err == nil {
		return s, nil
	}
	return p.store.GetSubjectByName(ref)
}

func (p *Planner) ListSubjects(includeArchived bool) ([]models.Subject, error) {
	return p.store.GetAllSubjects(includeArchived)
}

// SubjectEdit holds optional changes; nil fields are left alone. Existing
// reviews keep the name and color they were logged with.
type SubjectEdit struct {
	Name  *string
	Color *string
}

func (p *Planner) EditSubject(ref string, edit SubjectEdit) (models.Subject, error) {
	subject, err := p.FindSubject(ref)
	if err != nil {
		return models.Subject{}, err
	}
	if edit.Name != nil {
		subject.Name = strings.TrimSpace(*edit.Name)
	}
	if edit.Color != nil {
		subject.Color = *edit.Color
	}
	if err := subject.Validate(); err != nil {
		return models.Subject{}, err
	}
	if err := p.store.UpdateSubject(subject); err != nil {
		return models.Subject{}, err
	}
	logger.Info("subject updated", "id", subject.ID)
	return subject, nil
}

func (p *Planner) ArchiveSubject(ref string, archived bool) (models.Subject, error) {
	subject, err := p.FindSubject(ref)
	if err != nil {
		return models.Subject{}, err
	}
	if archived {
		err = p.store.ArchiveSubject(subject.ID)
	} else {
		err = p.store.UnarchiveSubject(subject.ID)
	}
	if err != nil {
		return models.Subject{}, err
	}
	subject.Archived = archived
	logger.Info("subject archive state changed", "id", subject.ID, "archived", archived)
	return subject, nil
}

// DeleteSubject fails with storage.ErrSubjectInUse while reviews reference it.
func (p *Planner) DeleteSubject(ref string) error {
	subject, err := p.FindSubject(ref)
	if err != nil {
		return err
	}
	if err := p.store.DeleteSubject(subject.ID); err != nil {
		return fmt.Errorf("cannot delete %q: %w", subject.Name, err)
	}
	logger.Info("subject deleted", "id", subject.ID)
	return nil
}
