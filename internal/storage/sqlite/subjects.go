package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/recall/internal/models"
	"github.com/julianstephens/recall/internal/storage"
)

const subjectColumns = `id, name, color, archived, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubject(row rowScanner) (models.Subject, error) {
	var subj models.Subject
	var createdAt string
	if err := row.Scan(&subj.ID, &subj.Name, &subj.Color, &subj.Archived, &createdAt); err != nil {
		return models.Subject{}, err
	}
	t, err := time.Parse(storage.TimestampFormat, createdAt)
	if err != nil {
		return models.Subject{}, fmt.Errorf("failed to parse created_at for subject %s: %w", subj.ID, err)
	}
	subj.CreatedAt = t
	return subj, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (s *Store) AddSubject(subject models.Subject) error {
	if err := s.checkLoaded(); err != nil {
		return err
	}
	if err := subject.Validate(); err != nil {
		return err
	}

	_, err := s.db.Exec(`INSERT INTO subjects (`+subjectColumns+`) VALUES (?, ?, ?, ?, ?)`,
		subject.ID, subject.Name, subject.Color, subject.Archived,
		subject.CreatedAt.UTC().Format(storage.TimestampFormat),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: subject %q", storage.ErrAlreadyExists, subject.Name)
	}
	return err
}

func (s *Store) GetSubject(id string) (models.Subject, error) {
	if err := s.checkLoaded(); err != nil {
		return models.Subject{}, err
	}
	subj, err := scanSubject(s.db.QueryRow(`SELECT `+subjectColumns+` FROM subjects WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Subject{}, fmt.Errorf("%w: subject %s", storage.ErrNotFound, id)
	}
	return subj, err
}

func (s *Store) GetSubjectByName(name string) (models.Subject, error) {
	if err := s.checkLoaded(); err != nil {
		return models.Subject{}, err
	}
	subj, err := scanSubject(s.db.QueryRow(`SELECT `+subjectColumns+` FROM subjects WHERE name = ? COLLATE NOCASE`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Subject{}, fmt.Errorf("%w: subject %q", storage.ErrNotFound, name)
	}
	return subj, err
}

func (s *Store) GetAllSubjects(includeArchived bool) ([]models.Subject, error) {
	if err := s.checkLoaded(); err != nil {
		return nil, err
	}

	query := `SELECT ` + subjectColumns + ` FROM subjects`
	if !includeArchived {
		query += ` WHERE archived = 0`
	}
	query += ` ORDER BY name COLLATE NOCASE`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []models.Subject
	for rows.Next() {
		subj, err := scanSubject(rows)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, subj)
	}
	return subjects, rows.Err()
}

func (s *Store) UpdateSubject(subject models.Subject) error {
	if err := s.checkLoaded(); err != nil {
		return err
	}
	if err := subject.Validate(); err != nil {
		return err
	}

	res, err := s.db.Exec(`UPDATE subjects SET name = ?, color = ?, archived = ? WHERE id = ?`,
		subject.Name, subject.Color, subject.Archived, subject.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: subject %q", storage.ErrAlreadyExists, subject.Name)
	}
	if err != nil {
		return err
	}
	return expectAffected(res, "subject", subject.ID)
}

func (s *Store) setArchived(id string, archived bool) error {
	if err := s.checkLoaded(); err != nil {
		return err
	}
	res, err := s.db.Exec(`UPDATE subjects SET archived = ? WHERE id = ?`, archived, id)
	if err != nil {
		return err
	}
	return expectAffected(res, "subject", id)
}

func (s *Store) ArchiveSubject(id string) error {
	return s.setArchived(id, true)
}

func (s *Store) UnarchiveSubject(id string) error {
	return s.setArchived(id, false)
}

func (s *Store) DeleteSubject(id string) error {
	if err := s.checkLoaded(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var name string
	if err := tx.QueryRow(`SELECT name FROM subjects WHERE id = ?`, id).Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: subject %s", storage.ErrNotFound, id)
		}
		return err
	}

	var refs int
	if err := tx.QueryRow(`SELECT count(*) FROM reviews WHERE subject_id = ?`, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("%w: %s (%d reviews)", storage.ErrSubjectInUse, name, refs)
	}

	if _, err := tx.Exec(`DELETE FROM subjects WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func expectAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s", storage.ErrNotFound, kind, id)
	}
	return nil
}
