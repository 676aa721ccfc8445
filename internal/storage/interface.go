package storage

import "github.com/julianstephens/recall/internal/models"

// Provider is the Data Store. It exclusively owns subjects, reviews and
// settings and persists on every mutation.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Subjects
	AddSubject(models.Subject) error
	GetSubject(id string) (models.Subject, error)
	GetSubjectByName(name string) (models.Subject, error)
	GetAllSubjects(includeArchived bool) ([]models.Subject, error)
	UpdateSubject(models.Subject) error
	ArchiveSubject(id string) error
	UnarchiveSubject(id string) error
	// DeleteSubject refuses with ErrSubjectInUse while any review references it.
	DeleteSubject(id string) error

	// Reviews
	// AddReviews inserts the whole slice or nothing.
	AddReviews([]models.Review) error
	GetReview(id string) (models.Review, error)
	// GetAllReviews returns every review ordered by date, creation time and id.
	GetAllReviews() ([]models.Review, error)
	GetReviewsByBatch(batchID string) ([]models.Review, error)
	UpdateReview(models.Review) error
	// UpdateReviews applies the whole slice or nothing.
	UpdateReviews([]models.Review) error
	DeleteReview(id string) error
	// DeleteReviews removes every listed review or none of them.
	DeleteReviews(ids []string) error

	// Utils
	GetConfigPath() string
}
