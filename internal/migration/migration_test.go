package migration

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestApplyMigrations_SQLite(t *testing.T) {
	db := openSQLite(t)
	fsys := fstest.MapFS{
		"001_init.sql":  {Data: []byte("CREATE TABLE subjects (id TEXT PRIMARY KEY);")},
		"002_cards.sql": {Data: []byte("CREATE TABLE cards (id TEXT PRIMARY KEY, subject_id TEXT);")},
		"README.md":     {Data: []byte("ignored")},
	}

	runner := NewRunner(db, fsys, DriverSQLite)

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected initial version 0, got %d", version)
	}

	count, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 migrations applied, got %d", count)
	}

	if err := runner.ValidateVersion(); err != nil {
		t.Errorf("ValidateVersion failed after applying: %v", err)
	}

	count, err = runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("second ApplyMigrations failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no pending migrations, got %d", count)
	}
}

func TestApplyMigrations_RollbackOnError(t *testing.T) {
	db := openSQLite(t)
	fsys := fstest.MapFS{
		"001_init.sql":   {Data: []byte("CREATE TABLE subjects (id TEXT PRIMARY KEY);")},
		"002_broken.sql": {Data: []byte("CREATE TABLE oops (;")},
	}

	runner := NewRunner(db, fsys, DriverSQLite)
	count, err := runner.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("expected error from broken migration")
	}
	if count != 1 {
		t.Errorf("expected 1 migration applied before failure, got %d", count)
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 1 {
		t.Errorf("expected version to stay at 1, got %d", version)
	}
}

func TestValidateVersion_NewerDatabase(t *testing.T) {
	db := openSQLite(t)
	fsys := fstest.MapFS{
		"001_init.sql": {Data: []byte("CREATE TABLE subjects (id TEXT PRIMARY KEY);")},
	}

	runner := NewRunner(db, fsys, DriverSQLite)
	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	if err := runner.ValidateVersion(); err == nil {
		t.Error("expected error for database newer than migrations")
	}
}

func TestReadMigrationFiles_Invalid(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{name: "missing underscore", fsys: fstest.MapFS{"001.sql": {Data: []byte("")}}},
		{name: "non-numeric version", fsys: fstest.MapFS{"abc_init.sql": {Data: []byte("")}}},
		{name: "zero version", fsys: fstest.MapFS{"000_init.sql": {Data: []byte("")}}},
		{name: "duplicate version", fsys: fstest.MapFS{
			"001_a.sql":  {Data: []byte("")},
			"0001_b.sql": {Data: []byte("")},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(nil, tt.fsys, DriverSQLite)
			if _, err := runner.ReadMigrationFiles(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

// TestApplyMigrations_Postgres runs against a live server when
// RECALL_TEST_POSTGRES holds a connection string.
func TestApplyMigrations_Postgres(t *testing.T) {
	connStr := os.Getenv("RECALL_TEST_POSTGRES")
	if connStr == "" {
		t.Skip("RECALL_TEST_POSTGRES not set, skipping PostgreSQL integration test")
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("failed to open postgres database: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DROP TABLE IF EXISTS schema_version")
		db.Exec("DROP TABLE IF EXISTS migrate_subjects")
		db.Close()
	})
	if err := db.Ping(); err != nil {
		t.Fatalf("failed to ping postgres database: %v", err)
	}

	fsys := fstest.MapFS{
		"001_init.sql": {Data: []byte("CREATE TABLE migrate_subjects (id TEXT PRIMARY KEY);")},
	}
	runner := NewRunner(db, fsys, DriverPostgres)

	count, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 migration applied, got %d", count)
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 1 {
		t.Errorf("expected version 1, got %d", version)
	}
}
