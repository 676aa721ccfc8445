// Package storetest holds a behavioural suite every storage.Provider
// backend must pass.
package storetest

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/recall/internal/models"
	"github.com/julianstephens/recall/internal/storage"
)

var epoch = time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

// Subject returns a valid subject fixture.
func Subject(id, name string) models.Subject {
	return models.Subject{ID: id, Name: name, Color: "#336699", CreatedAt: epoch}
}

// Review returns a valid pending review fixture.
func Review(id, batch, date string, typ models.ReviewType, minutes int) models.Review {
	return models.Review{
		ID:          id,
		SubjectID:   "subj-1",
		SubjectName: "Anatomy",
		Color:       "#336699",
		Topic:       "Cranial nerves",
		TimeMin:     minutes,
		Date:        date,
		Type:        typ,
		Status:      models.StatusPending,
		CycleIndex:  1,
		BatchID:     batch,
		Complexity:  models.ComplexityNormal,
		CreatedAt:   epoch,
	}
}

// Run exercises settings, subjects and reviews against a freshly
// initialized provider returned by newStore.
func Run(t *testing.T, newStore func(t *testing.T) storage.Provider) {
	t.Run("Settings", func(t *testing.T) {
		s := newStore(t)

		settings, err := s.GetSettings()
		if err != nil {
			t.Fatalf("GetSettings() error = %v", err)
		}
		if settings != models.DefaultSettings() {
			t.Errorf("fresh store settings = %+v, want defaults %+v", settings, models.DefaultSettings())
		}

		settings.DailyCapacityMin = 300
		settings.Profile = models.ProfilePendular
		settings.CycleStartDate = "2025-01-01"
		settings.LastAttackDate = "2025-01-03"
		if err := s.SaveSettings(settings); err != nil {
			t.Fatalf("SaveSettings() error = %v", err)
		}

		got, err := s.GetSettings()
		if err != nil {
			t.Fatalf("GetSettings() error = %v", err)
		}
		if got != settings {
			t.Errorf("GetSettings() = %+v, want %+v", got, settings)
		}
	})

	t.Run("Subjects", func(t *testing.T) {
		s := newStore(t)

		if err := s.AddSubject(Subject("subj-1", "Anatomy")); err != nil {
			t.Fatalf("AddSubject() error = %v", err)
		}
		if err := s.AddSubject(Subject("subj-2", "Biochemistry")); err != nil {
			t.Fatalf("AddSubject() error = %v", err)
		}
		if err := s.AddSubject(Subject("subj-3", "anatomy")); !errors.Is(err, storage.ErrAlreadyExists) {
			t.Errorf("AddSubject(duplicate name) error = %v, want ErrAlreadyExists", err)
		}

		byName, err := s.GetSubjectByName("ANATOMY")
		if err != nil {
			t.Fatalf("GetSubjectByName() error = %v", err)
		}
		if byName.ID != "subj-1" {
			t.Errorf("GetSubjectByName() id = %s, want subj-1", byName.ID)
		}

		if err := s.ArchiveSubject("subj-2"); err != nil {
			t.Fatalf("ArchiveSubject() error = %v", err)
		}
		active, err := s.GetAllSubjects(false)
		if err != nil {
			t.Fatalf("GetAllSubjects(false) error = %v", err)
		}
		if len(active) != 1 || active[0].ID != "subj-1" {
			t.Errorf("GetAllSubjects(false) = %+v, want only subj-1", active)
		}
		all, err := s.GetAllSubjects(true)
		if err != nil {
			t.Fatalf("GetAllSubjects(true) error = %v", err)
		}
		if len(all) != 2 {
			t.Errorf("GetAllSubjects(true) returned %d subjects, want 2", len(all))
		}
		if err := s.UnarchiveSubject("subj-2"); err != nil {
			t.Fatalf("UnarchiveSubject() error = %v", err)
		}

		renamed := Subject("subj-1", "Gross Anatomy")
		if err := s.UpdateSubject(renamed); err != nil {
			t.Fatalf("UpdateSubject() error = %v", err)
		}
		got, err := s.GetSubject("subj-1")
		if err != nil {
			t.Fatalf("GetSubject() error = %v", err)
		}
		if got.Name != "Gross Anatomy" {
			t.Errorf("GetSubject() name = %q, want Gross Anatomy", got.Name)
		}

		if err := s.AddReviews([]models.Review{Review("r-1", "b-1", "2025-01-01", models.ReviewNew, 60)}); err != nil {
			t.Fatalf("AddReviews() error = %v", err)
		}
		if err := s.DeleteSubject("subj-1"); !errors.Is(err, storage.ErrSubjectInUse) {
			t.Errorf("DeleteSubject(referenced) error = %v, want ErrSubjectInUse", err)
		}
		if err := s.DeleteSubject("subj-2"); err != nil {
			t.Errorf("DeleteSubject(unreferenced) error = %v", err)
		}
		if _, err := s.GetSubject("subj-2"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetSubject(deleted) error = %v, want ErrNotFound", err)
		}
		if err := s.ArchiveSubject("missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("ArchiveSubject(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("Reviews", func(t *testing.T) {
		s := newStore(t)

		done := epoch.Add(2 * time.Hour)
		acq := Review("r-1", "b-1", "2025-01-01", models.ReviewNew, 60)
		acq.Subtasks = []models.Subtask{{ID: "st-1", Text: "flashcards", IsRecurrent: true}}
		acq.Link = "https://example.org/notes"
		acq.HTMLSummary = "<p>summary</p>"
		r24 := Review("r-2", "b-1", "2025-01-02", models.Review24H, 12)
		r7 := Review("r-3", "b-1", "2025-01-08", models.Review7Day, 6)
		r7.Status = models.StatusDone
		r7.CompletedAt = &done

		if err := s.AddReviews([]models.Review{r7, acq, r24}); err != nil {
			t.Fatalf("AddReviews() error = %v", err)
		}

		all, err := s.GetAllReviews()
		if err != nil {
			t.Fatalf("GetAllReviews() error = %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("GetAllReviews() returned %d reviews, want 3", len(all))
		}
		if all[0].ID != "r-1" || all[1].ID != "r-2" || all[2].ID != "r-3" {
			t.Errorf("GetAllReviews() order = %s,%s,%s, want r-1,r-2,r-3", all[0].ID, all[1].ID, all[2].ID)
		}

		got, err := s.GetReview("r-1")
		if err != nil {
			t.Fatalf("GetReview() error = %v", err)
		}
		if len(got.Subtasks) != 1 || !got.Subtasks[0].IsRecurrent || got.Subtasks[0].Text != "flashcards" {
			t.Errorf("GetReview() subtasks = %+v", got.Subtasks)
		}
		if got.Link != acq.Link || got.HTMLSummary != acq.HTMLSummary {
			t.Errorf("GetReview() link/summary = %q/%q", got.Link, got.HTMLSummary)
		}
		if !got.CreatedAt.Equal(epoch) {
			t.Errorf("GetReview() created_at = %v, want %v", got.CreatedAt, epoch)
		}

		doneGot, err := s.GetReview("r-3")
		if err != nil {
			t.Fatalf("GetReview() error = %v", err)
		}
		if doneGot.CompletedAt == nil || !doneGot.CompletedAt.Equal(done) {
			t.Errorf("GetReview() completed_at = %v, want %v", doneGot.CompletedAt, done)
		}

		batch, err := s.GetReviewsByBatch("b-1")
		if err != nil {
			t.Fatalf("GetReviewsByBatch() error = %v", err)
		}
		if len(batch) != 3 {
			t.Errorf("GetReviewsByBatch() returned %d reviews, want 3", len(batch))
		}

		got.Date = "2025-01-03"
		got.IsTemporary = true
		got.OriginalDate = "2025-01-01"
		if err := s.UpdateReview(got); err != nil {
			t.Fatalf("UpdateReview() error = %v", err)
		}
		updated, err := s.GetReview("r-1")
		if err != nil {
			t.Fatalf("GetReview() error = %v", err)
		}
		if updated.Date != "2025-01-03" || !updated.IsTemporary || updated.OriginalDate != "2025-01-01" {
			t.Errorf("UpdateReview() not persisted: %+v", updated)
		}

		if err := s.DeleteReview("r-2"); err != nil {
			t.Fatalf("DeleteReview() error = %v", err)
		}
		if _, err := s.GetReview("r-2"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetReview(deleted) error = %v, want ErrNotFound", err)
		}
		if err := s.DeleteReview("r-2"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("DeleteReview(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("DeleteReviewsIsAtomic", func(t *testing.T) {
		s := newStore(t)

		if err := s.AddReviews([]models.Review{
			Review("r-1", "b-1", "2025-01-01", models.ReviewNew, 60),
			Review("r-2", "b-1", "2025-01-02", models.Review24H, 12),
		}); err != nil {
			t.Fatalf("AddReviews() error = %v", err)
		}

		if err := s.DeleteReviews([]string{"r-1", "missing"}); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("DeleteReviews(with missing id) error = %v, want ErrNotFound", err)
		}
		all, _ := s.GetAllReviews()
		if len(all) != 2 {
			t.Fatalf("failed DeleteReviews() left %d reviews, want 2", len(all))
		}

		if err := s.DeleteReviews([]string{"r-1", "r-2"}); err != nil {
			t.Fatalf("DeleteReviews() error = %v", err)
		}
		all, _ = s.GetAllReviews()
		if len(all) != 0 {
			t.Errorf("DeleteReviews() left %d reviews, want 0", len(all))
		}
	})

	t.Run("AddReviewsIsAtomic", func(t *testing.T) {
		s := newStore(t)

		if err := s.AddReviews([]models.Review{Review("r-1", "b-1", "2025-01-01", models.ReviewNew, 60)}); err != nil {
			t.Fatalf("AddReviews() error = %v", err)
		}

		// The second record collides with r-1, so r-9 must not be written either.
		err := s.AddReviews([]models.Review{
			Review("r-9", "b-2", "2025-01-05", models.ReviewNew, 30),
			Review("r-1", "b-2", "2025-01-06", models.Review24H, 6),
		})
		if err == nil {
			t.Fatal("AddReviews() with a duplicate id should fail")
		}
		if _, err := s.GetReview("r-9"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("partial batch was written: GetReview(r-9) error = %v", err)
		}

		invalid := Review("r-10", "b-3", "2025-01-05", models.ReviewNew, 0)
		if err := s.AddReviews([]models.Review{invalid}); err == nil {
			t.Error("AddReviews() with zero time should fail")
		}
	})

	t.Run("UpdateReviewsIsAtomic", func(t *testing.T) {
		s := newStore(t)

		if err := s.AddReviews([]models.Review{
			Review("r-1", "b-1", "2025-01-01", models.ReviewNew, 60),
			Review("r-2", "b-1", "2025-01-02", models.Review24H, 12),
		}); err != nil {
			t.Fatalf("AddReviews() error = %v", err)
		}

		moved := Review("r-1", "b-1", "2025-01-04", models.ReviewNew, 60)
		missing := Review("r-404", "b-1", "2025-01-05", models.Review24H, 12)
		err := s.UpdateReviews([]models.Review{moved, missing})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("UpdateReviews() error = %v, want ErrNotFound", err)
		}

		got, err := s.GetReview("r-1")
		if err != nil {
			t.Fatalf("GetReview() error = %v", err)
		}
		if got.Date != "2025-01-01" {
			t.Errorf("partial update applied: r-1 date = %s, want 2025-01-01", got.Date)
		}
	})
}
