package system

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/recall/internal/cli"
	"github.com/julianstephens/recall/internal/utils"
	"github.com/julianstephens/recall/internal/validation"
)

// errWarning marks a finding that is reported but does not fail the run.
var errWarning = errors.New("warning")

type schemaReporter interface {
	SchemaVersions() (current, latest int, err error)
}

type sqlBacked interface {
	GetDB() *sql.DB
}

type check struct {
	name    string
	needsDB bool
	run     func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Backups present", run: checkBackupsPresent},
	{name: "Data validation", needsDB: true, run: checkValidation},
	{name: "Clock/timezone", needsDB: true, run: checkClockTimezone},
	{name: "Date formats", needsDB: true, run: checkDateFormats},
	{name: "Timestamp integrity", needsDB: true, run: checkTimestampIntegrity},
	{name: "Configuration", run: checkConfig},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := true
	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Store reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		fmt.Printf("✓ Store reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (store not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case errors.Is(err, errWarning):
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	if s, ok := ctx.Store.(sqlBacked); ok {
		db := s.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	s, ok := ctx.Store.(schemaReporter)
	if !ok {
		return nil
	}
	current, latest, err := s.SchemaVersions()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	s, ok := ctx.Store.(schemaReporter)
	if !ok {
		return nil
	}
	current, latest, err := s.SchemaVersions()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := ctx.Backups()
	if mgr == nil {
		return fmt.Errorf("%w: PostgreSQL stores are not backed up by recall; use pg_dump", errWarning)
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("%w: failed to list backups: %v", errWarning, err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("%w: no backups found - consider creating one with 'recall backup create'", errWarning)
	}
	return nil
}

// checkValidation fails on corrupt records and warns on scheduling
// conflicts, which 'recall validate' and 'recall cycle repair' can fix.
func checkValidation(ctx *cli.Context) error {
	result, err := ctx.Planner.Validate()
	if err != nil {
		return err
	}
	if invalid := result.ByType(validation.ConflictInvalidRecord); len(invalid) > 0 {
		return fmt.Errorf("%d invalid review record(s): %s", len(invalid), invalid[0].Description)
	}
	if result.HasConflicts() {
		return fmt.Errorf("%w: %d conflict(s) found - run 'recall validate' for details", errWarning, len(result.Conflicts))
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if _, err := utils.LoadLocation(settings.Timezone); err != nil {
		return fmt.Errorf("configured timezone %q cannot be loaded: %w", settings.Timezone, err)
	}
	return nil
}

func checkDateFormats(ctx *cli.Context) error {
	s, ok := ctx.Store.(sqlBacked)
	if !ok || s.GetDB() == nil || !isSQLite(ctx) {
		return nil
	}

	var invalidCount int
	err := s.GetDB().QueryRow(`
		SELECT COUNT(*)
		FROM reviews
		WHERE date NOT GLOB '[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9]'
		   OR (original_date != '' AND original_date NOT GLOB '[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9]')
	`).Scan(&invalidCount)
	if err != nil {
		return fmt.Errorf("failed to check review dates: %w", err)
	}
	if invalidCount > 0 {
		return fmt.Errorf("found %d reviews with invalid date format", invalidCount)
	}
	return nil
}

func checkTimestampIntegrity(ctx *cli.Context) error {
	s, ok := ctx.Store.(sqlBacked)
	if !ok || s.GetDB() == nil || !isSQLite(ctx) {
		return nil
	}
	db := s.GetDB()

	var corruptedCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM reviews WHERE created_at = ''`).Scan(&corruptedCount); err != nil {
		return fmt.Errorf("failed to check review timestamps: %w", err)
	}
	if corruptedCount > 0 {
		return fmt.Errorf("found %d reviews with corrupted timestamps", corruptedCount)
	}

	if err := db.QueryRow(`SELECT COUNT(*) FROM subjects WHERE created_at = ''`).Scan(&corruptedCount); err != nil {
		return fmt.Errorf("failed to check subject timestamps: %w", err)
	}
	if corruptedCount > 0 {
		return fmt.Errorf("found %d subjects with corrupted timestamps", corruptedCount)
	}

	if err := db.QueryRow(`
		SELECT COUNT(*) FROM reviews
		WHERE status = 'DONE' AND (completed_at IS NULL OR completed_at = '')
	`).Scan(&corruptedCount); err != nil {
		return fmt.Errorf("failed to check completion timestamps: %w", err)
	}
	if corruptedCount > 0 {
		return fmt.Errorf("%w: %d done reviews have no completion time", errWarning, corruptedCount)
	}
	return nil
}

func checkConfig(ctx *cli.Context) error {
	if ctx.Config == nil {
		return nil
	}
	return ctx.Config.Validate()
}

// isSQLite reports whether the raw SQL checks apply; they use GLOB, which
// PostgreSQL lacks.
func isSQLite(ctx *cli.Context) bool {
	return ctx.IsFileStore()
}
