package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/recall/internal/models"
	"github.com/julianstephens/recall/internal/storage"
)

const reviewColumns = `id, subject_id, subject_name, color, topic, time_min, date, type, status,
	cycle_index, batch_id, complexity, is_temporary, original_date, subtasks, link, html_summary,
	created_at, completed_at`

func scanReview(row rowScanner) (models.Review, error) {
	var r models.Review
	var typ, status, complexity string
	var subtasks []byte
	var completedAt sql.NullTime

	err := row.Scan(
		&r.ID, &r.SubjectID, &r.SubjectName, &r.Color, &r.Topic, &r.TimeMin, &r.Date, &typ, &status,
		&r.CycleIndex, &r.BatchID, &complexity, &r.IsTemporary, &r.OriginalDate, &subtasks, &r.Link, &r.HTMLSummary,
		&r.CreatedAt, &completedAt,
	)
	if err != nil {
		return models.Review{}, err
	}

	r.Type = models.ReviewType(typ)
	r.Status = models.ReviewStatus(status)
	r.Complexity = models.Complexity(complexity)

	if r.Subtasks, err = storage.DecodeSubtasks(subtasks); err != nil {
		return models.Review{}, fmt.Errorf("review %s: %w", r.ID, err)
	}
	if completedAt.Valid {
		t := completedAt.Time
		r.CompletedAt = &t
	}
	return r, nil
}

func reviewArgs(r models.Review) ([]any, error) {
	subtasks, err := storage.EncodeSubtasks(r.Subtasks)
	if err != nil {
		return nil, err
	}
	var completedAt sql.NullTime
	if r.CompletedAt != nil {
		completedAt = sql.NullTime{Time: r.CompletedAt.UTC(), Valid: true}
	}
	return []any{
		r.ID, r.SubjectID, r.SubjectName, r.Color, r.Topic, r.TimeMin, r.Date, string(r.Type), string(r.Status),
		r.CycleIndex, r.BatchID, string(r.Complexity), r.IsTemporary, r.OriginalDate, subtasks, r.Link, r.HTMLSummary,
		r.CreatedAt.UTC(), completedAt,
	}, nil
}

func (s *Store) AddReviews(reviews []models.Review) error {
	if err := s.checkLoaded(); err != nil {
		return err
	}
	if len(reviews) == 0 {
		return nil
	}
	if err := storage.ValidateReviews(reviews); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15::jsonb, $16, $17, $18, $19)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range reviews {
		args, err := reviewArgs(r)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(args...); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: review %s", storage.ErrAlreadyExists, r.ID)
			}
			return fmt.Errorf("failed to insert review %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

func (s *Store) GetReview(id string) (models.Review, error) {
	if err := s.checkLoaded(); err != nil {
		return models.Review{}, err
	}
	r, err := scanReview(s.db.QueryRow(`SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Review{}, fmt.Errorf("%w: review %s", storage.ErrNotFound, id)
	}
	return r, err
}

func (s *Store) queryReviews(query string, args ...any) ([]models.Review, error) {
	rows, err := s.db.Query(query+` ORDER BY date, created_at, id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

func (s *Store) GetAllReviews() ([]models.Review, error) {
	if err := s.checkLoaded(); err != nil {
		return nil, err
	}
	return s.queryReviews(`SELECT ` + reviewColumns + ` FROM reviews`)
}

func (s *Store) GetReviewsByBatch(batchID string) ([]models.Review, error) {
	if err := s.checkLoaded(); err != nil {
		return nil, err
	}
	if batchID == "" {
		return nil, nil
	}
	return s.queryReviews(`SELECT `+reviewColumns+` FROM reviews WHERE batch_id = $1`, batchID)
}

func (s *Store) UpdateReview(review models.Review) error {
	return s.UpdateReviews([]models.Review{review})
}

func (s *Store) UpdateReviews(reviews []models.Review) error {
	if err := s.checkLoaded(); err != nil {
		return err
	}
	if len(reviews) == 0 {
		return nil
	}
	if err := storage.ValidateReviews(reviews); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`UPDATE reviews SET
		subject_id = $2, subject_name = $3, color = $4, topic = $5, time_min = $6, date = $7, type = $8, status = $9,
		cycle_index = $10, batch_id = $11, complexity = $12, is_temporary = $13, original_date = $14, subtasks = $15::jsonb,
		link = $16, html_summary = $17, created_at = $18, completed_at = $19
		WHERE id = $1`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range reviews {
		args, err := reviewArgs(r)
		if err != nil {
			return err
		}
		res, err := stmt.Exec(args...)
		if err != nil {
			return fmt.Errorf("failed to update review %s: %w", r.ID, err)
		}
		if err := expectAffected(res, "review", r.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) DeleteReviews(ids []string) error {
	if err := s.checkLoaded(); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`DELETE FROM reviews WHERE id = $1`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, id := range ids {
		res, err := stmt.Exec(id)
		if err != nil {
			return fmt.Errorf("failed to delete review %s: %w", id, err)
		}
		if err := expectAffected(res, "review", id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) DeleteReview(id string) error {
	if err := s.checkLoaded(); err != nil {
		return err
	}
	res, err := s.db.Exec(`DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res, "review", id)
}
