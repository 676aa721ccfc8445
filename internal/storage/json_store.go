package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/julianstephens/recall/internal/models"
)

// Document is the on-disk layout of a JSON store.
type Document struct {
	Version  int                       `json:"version"`
	Settings models.Settings           `json:"settings"`
	Subjects map[string]models.Subject `json:"subjects"`
	Reviews  map[string]models.Review  `json:"reviews"`
}

// JSONStore keeps the whole collection in memory and rewrites the file on
// every mutation. Writes go through a temp file and rename.
type JSONStore struct {
	path string
	doc  *Document
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("%w at %s", ErrAlreadyInitialized, s.path)
	}

	s.doc = &Document{
		Version:  1,
		Settings: models.DefaultSettings(),
		Subjects: make(map[string]models.Subject),
		Reviews:  make(map[string]models.Review),
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	if doc.Subjects == nil {
		doc.Subjects = make(map[string]models.Subject)
	}
	if doc.Reviews == nil {
		doc.Reviews = make(map[string]models.Review)
	}
	models.ApplyDefaultSettings(&doc.Settings)

	s.doc = doc
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace storage: %w", err)
	}

	return nil
}

func (s *JSONStore) GetSettings() (models.Settings, error) {
	if s.doc == nil {
		return models.Settings{}, ErrNotLoaded
	}
	return s.doc.Settings, nil
}

func (s *JSONStore) SaveSettings(settings models.Settings) error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	prev := s.doc.Settings
	s.doc.Settings = settings
	if err := s.save(); err != nil {
		s.doc.Settings = prev
		return err
	}
	return nil
}

func (s *JSONStore) AddSubject(subject models.Subject) error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	if err := subject.Validate(); err != nil {
		return err
	}
	if _, ok := s.doc.Subjects[subject.ID]; ok {
		return fmt.Errorf("%w: subject %s", ErrAlreadyExists, subject.ID)
	}
	for _, existing := range s.doc.Subjects {
		if strings.EqualFold(existing.Name, subject.Name) {
			return fmt.Errorf("%w: subject named %q", ErrAlreadyExists, subject.Name)
		}
	}

	s.doc.Subjects[subject.ID] = subject
	if err := s.save(); err != nil {
		delete(s.doc.Subjects, subject.ID)
		return err
	}
	return nil
}

func (s *JSONStore) GetSubject(id string) (models.Subject, error) {
	if s.doc == nil {
		return models.Subject{}, ErrNotLoaded
	}
	subject, ok := s.doc.Subjects[id]
	if !ok {
		return models.Subject{}, fmt.Errorf("%w: subject %s", ErrNotFound, id)
	}
	return subject, nil
}

func (s *JSONStore) GetSubjectByName(name string) (models.Subject, error) {
	if s.doc == nil {
		return models.Subject{}, ErrNotLoaded
	}
	for _, subject := range s.doc.Subjects {
		if strings.EqualFold(subject.Name, name) {
			return subject, nil
		}
	}
	return models.Subject{}, fmt.Errorf("%w: subject %q", ErrNotFound, name)
}

func (s *JSONStore) GetAllSubjects(includeArchived bool) ([]models.Subject, error) {
	if s.doc == nil {
		return nil, ErrNotLoaded
	}
	subjects := make([]models.Subject, 0, len(s.doc.Subjects))
	for _, subject := range s.doc.Subjects {
		if subject.Archived && !includeArchived {
			continue
		}
		subjects = append(subjects, subject)
	}
	sort.Slice(subjects, func(i, j int) bool {
		return strings.ToLower(subjects[i].Name) < strings.ToLower(subjects[j].Name)
	})
	return subjects, nil
}

func (s *JSONStore) UpdateSubject(subject models.Subject) error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	if err := subject.Validate(); err != nil {
		return err
	}
	prev, ok := s.doc.Subjects[subject.ID]
	if !ok {
		return fmt.Errorf("%w: subject %s", ErrNotFound, subject.ID)
	}
	for _, existing := range s.doc.Subjects {
		if existing.ID != subject.ID && strings.EqualFold(existing.Name, subject.Name) {
			return fmt.Errorf("%w: subject named %q", ErrAlreadyExists, subject.Name)
		}
	}

	s.doc.Subjects[subject.ID] = subject
	if err := s.save(); err != nil {
		s.doc.Subjects[subject.ID] = prev
		return err
	}
	return nil
}

func (s *JSONStore) setArchived(id string, archived bool) error {
	subject, err := s.GetSubject(id)
	if err != nil {
		return err
	}
	subject.Archived = archived
	return s.UpdateSubject(subject)
}

func (s *JSONStore) ArchiveSubject(id string) error {
	return s.setArchived(id, true)
}

func (s *JSONStore) UnarchiveSubject(id string) error {
	return s.setArchived(id, false)
}

func (s *JSONStore) DeleteSubject(id string) error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	subject, ok := s.doc.Subjects[id]
	if !ok {
		return fmt.Errorf("%w: subject %s", ErrNotFound, id)
	}
	for _, r := range s.doc.Reviews {
		if r.SubjectID == id {
			return fmt.Errorf("%w: %s", ErrSubjectInUse, subject.Name)
		}
	}

	delete(s.doc.Subjects, id)
	if err := s.save(); err != nil {
		s.doc.Subjects[id] = subject
		return err
	}
	return nil
}

func (s *JSONStore) AddReviews(reviews []models.Review) error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	if len(reviews) == 0 {
		return nil
	}
	if err := ValidateReviews(reviews); err != nil {
		return err
	}
	for _, r := range reviews {
		if _, ok := s.doc.Reviews[r.ID]; ok {
			return fmt.Errorf("%w: review %s", ErrAlreadyExists, r.ID)
		}
	}

	for _, r := range reviews {
		s.doc.Reviews[r.ID] = r.Clone()
	}
	if err := s.save(); err != nil {
		for _, r := range reviews {
			delete(s.doc.Reviews, r.ID)
		}
		return err
	}
	return nil
}

func (s *JSONStore) GetReview(id string) (models.Review, error) {
	if s.doc == nil {
		return models.Review{}, ErrNotLoaded
	}
	r, ok := s.doc.Reviews[id]
	if !ok {
		return models.Review{}, fmt.Errorf("%w: review %s", ErrNotFound, id)
	}
	return r.Clone(), nil
}

func (s *JSONStore) GetAllReviews() ([]models.Review, error) {
	if s.doc == nil {
		return nil, ErrNotLoaded
	}
	reviews := make([]models.Review, 0, len(s.doc.Reviews))
	for _, r := range s.doc.Reviews {
		reviews = append(reviews, r.Clone())
	}
	SortReviews(reviews)
	return reviews, nil
}

func (s *JSONStore) GetReviewsByBatch(batchID string) ([]models.Review, error) {
	if s.doc == nil {
		return nil, ErrNotLoaded
	}
	var reviews []models.Review
	for _, r := range s.doc.Reviews {
		if batchID != "" && r.BatchID == batchID {
			reviews = append(reviews, r.Clone())
		}
	}
	SortReviews(reviews)
	return reviews, nil
}

func (s *JSONStore) UpdateReview(review models.Review) error {
	return s.UpdateReviews([]models.Review{review})
}

func (s *JSONStore) UpdateReviews(reviews []models.Review) error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	if len(reviews) == 0 {
		return nil
	}
	if err := ValidateReviews(reviews); err != nil {
		return err
	}

	prev := make(map[string]models.Review, len(reviews))
	for _, r := range reviews {
		old, ok := s.doc.Reviews[r.ID]
		if !ok {
			return fmt.Errorf("%w: review %s", ErrNotFound, r.ID)
		}
		prev[r.ID] = old
	}

	for _, r := range reviews {
		s.doc.Reviews[r.ID] = r.Clone()
	}
	if err := s.save(); err != nil {
		for id, old := range prev {
			s.doc.Reviews[id] = old
		}
		return err
	}
	return nil
}

func (s *JSONStore) DeleteReview(id string) error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	r, ok := s.doc.Reviews[id]
	if !ok {
		return fmt.Errorf("%w: review %s", ErrNotFound, id)
	}
	delete(s.doc.Reviews, id)
	if err := s.save(); err != nil {
		s.doc.Reviews[id] = r
		return err
	}
	return nil
}

func (s *JSONStore) DeleteReviews(ids []string) error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	if len(ids) == 0 {
		return nil
	}

	prev := make(map[string]models.Review, len(ids))
	for _, id := range ids {
		r, ok := s.doc.Reviews[id]
		if !ok {
			return fmt.Errorf("%w: review %s", ErrNotFound, id)
		}
		prev[id] = r
	}

	for id := range prev {
		delete(s.doc.Reviews, id)
	}
	if err := s.save(); err != nil {
		for id, r := range prev {
			s.doc.Reviews[id] = r
		}
		return err
	}
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
