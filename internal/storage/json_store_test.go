package storage_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/recall/internal/models"
	"github.com/julianstephens/recall/internal/storage"
	"github.com/julianstephens/recall/internal/storage/storetest"
)

func newJSONStore(t *testing.T) storage.Provider {
	t.Helper()
	s := storage.NewJSONStore(filepath.Join(t.TempDir(), "recall.json"))
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return s
}

func TestJSONStore_Provider(t *testing.T) {
	storetest.Run(t, newJSONStore)
}

func TestJSONStore_InitTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recall.json")
	if err := storage.NewJSONStore(path).Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := storage.NewJSONStore(path).Init(); !errors.Is(err, storage.ErrAlreadyInitialized) {
		t.Errorf("second Init() error = %v, want ErrAlreadyInitialized", err)
	}
}

func TestJSONStore_LoadMissing(t *testing.T) {
	s := storage.NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))
	if err := s.Load(); !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("Load() error = %v, want ErrNotInitialized", err)
	}
	if _, err := s.GetAllReviews(); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("GetAllReviews() before load error = %v, want ErrNotLoaded", err)
	}
}

func TestJSONStore_PersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recall.json")
	s := storage.NewJSONStore(path)
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := s.AddReviews([]models.Review{storetest.Review("r-1", "b-1", "2025-01-01", models.ReviewNew, 45)}); err != nil {
		t.Fatalf("AddReviews() error = %v", err)
	}

	reloaded := storage.NewJSONStore(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	r, err := reloaded.GetReview("r-1")
	if err != nil {
		t.Fatalf("GetReview() error = %v", err)
	}
	if r.TimeMin != 45 {
		t.Errorf("reloaded time = %d, want 45", r.TimeMin)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestJSONStore_LoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recall.json")
	data, err := json.Marshal(storage.Document{Version: 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}

	s := storage.NewJSONStore(path)
	if err := s.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	settings, err := s.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if settings != models.DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", settings)
	}
	subjects, err := s.GetAllSubjects(true)
	if err != nil {
		t.Fatalf("GetAllSubjects() error = %v", err)
	}
	if len(subjects) != 0 {
		t.Errorf("expected no subjects, got %d", len(subjects))
	}
}
