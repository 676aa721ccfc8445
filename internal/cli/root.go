package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/julianstephens/recall/internal/backup"
	"github.com/julianstephens/recall/internal/config"
	"github.com/julianstephens/recall/internal/keyring"
	"github.com/julianstephens/recall/internal/logger"
	"github.com/julianstephens/recall/internal/planner"
	"github.com/julianstephens/recall/internal/storage"
	"github.com/julianstephens/recall/internal/storage/postgres"
	"github.com/julianstephens/recall/internal/storage/sqlite"
	"github.com/julianstephens/recall/internal/utils"
)

type Context struct {
	Store   storage.Provider
	Planner *planner.Planner
	Config  *config.Config
	// ConfigPath is where Config was loaded from.
	ConfigPath string
}

// OpenStore picks the backend for path: a PostgreSQL URL, a .json document
// or, by default, a SQLite file. Passwords embedded in a URL are refused;
// they belong in the environment or the OS keyring.
func OpenStore(path string) (storage.Provider, error) {
	if utils.IsPostgresConnString(path) {
		if _, err := postgres.ValidateConnString(path); errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, fmt.Errorf("%w: use 'recall keyring set' or the environment instead", err)
		}
		connStr, source, err := keyring.Resolve(path)
		if err != nil {
			return nil, err
		}
		logger.Debug("Using PostgreSQL store", "source", source, "conn", keyring.MaskPassword(connStr))
		return postgres.New(connStr), nil
	}

	expanded, err := utils.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(expanded), ".json") {
		return storage.NewJSONStore(expanded), nil
	}
	return sqlite.NewStore(expanded), nil
}

// IsFileStore reports whether the store lives in a local file. A PostgreSQL
// store reports an identifier, not a path, from GetConfigPath.
func (c *Context) IsFileStore() bool {
	_, pg := c.Store.(*postgres.Store)
	return !pg
}

// Backups returns the backup manager for file stores, nil for PostgreSQL.
func (c *Context) Backups() *backup.Manager {
	if !c.IsFileStore() {
		return nil
	}
	return backup.NewManager(c.Store.GetConfigPath())
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr := c.Backups()
	if mgr == nil {
		return
	}
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ResolveDate turns "today", "tomorrow", "yesterday", "+N"/"-N" or a
// YYYY-MM-DD date into a date relative to today. An empty string is today.
func ResolveDate(s, today string) (string, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", "today":
		return today, nil
	case "tomorrow":
		return utils.AddDays(today, 1)
	case "yesterday":
		return utils.AddDays(today, -1)
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		n, err := strconv.Atoi(s)
		if err != nil {
			return "", fmt.Errorf("invalid day offset: %s", s)
		}
		return utils.AddDays(today, n)
	}
	if !utils.IsValidDate(s) {
		return "", fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD, today, tomorrow or +N)", s)
	}
	return s, nil
}

// ParseSettingPairs parses key=value arguments.
func ParseSettingPairs(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid setting %q (expected key=value)", pair)
		}
		values[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return values, nil
}
