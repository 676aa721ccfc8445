package sqlite

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/julianstephens/recall/internal/storage"
	"github.com/julianstephens/recall/internal/storage/storetest"
)

func setupTestStore(t *testing.T) storage.Provider {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "recall.db"))
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_Provider(t *testing.T) {
	storetest.Run(t, setupTestStore)
}

func TestStore_LoadUninitialized(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := s.Load(); !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("Load() error = %v, want ErrNotInitialized", err)
	}
	if _, err := s.GetSettings(); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("GetSettings() before load error = %v, want ErrNotLoaded", err)
	}
}

func TestStore_ReopenValidatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recall.db")
	s := NewStore(path)
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer reopened.Close()

	n, err := reopened.Migrate(nil)
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if n != 0 {
		t.Errorf("Migrate() applied %d migrations on an up-to-date database", n)
	}
}
