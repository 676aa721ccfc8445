// Package keyring keeps the PostgreSQL connection string out of flags and
// config files.
package keyring

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/recall/internal/constants"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Source names where a connection string came from.
type Source string

const (
	SourceFlag    Source = "flag"
	SourceEnv     Source = "environment"
	SourceKeyring Source = "keyring"
)

// GetConnectionString reads the stored connection string.
func GetConnectionString() (string, error) {
	connStr, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

// SetConnectionString stores a connection string. Only PostgreSQL URLs are
// accepted; embedded passwords are allowed since the keyring is encrypted.
func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if !isPostgresURL(connStr) {
		return errors.New("connection string must start with postgres:// or postgresql://")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, connStr); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// DeleteConnectionString removes the stored connection string.
func DeleteConnectionString() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// IsAvailable is a best-effort probe: a not-found answer still means the
// keyring works.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// Resolve picks the connection string for a PostgreSQL store. A configured
// URL that already carries a user and host wins; otherwise the environment
// variable and then the keyring are consulted, and their value replaces
// the configured one.
func Resolve(configured string) (string, Source, error) {
	if env := strings.TrimSpace(os.Getenv(constants.ConnectionEnvVar)); env != "" {
		if !isPostgresURL(configured) || !isComplete(configured) {
			return env, SourceEnv, nil
		}
	}
	if isPostgresURL(configured) && isComplete(configured) {
		return configured, SourceFlag, nil
	}
	connStr, err := GetConnectionString()
	if err != nil {
		return "", "", fmt.Errorf("no usable connection string (set %s or run 'recall keyring set'): %w",
			constants.ConnectionEnvVar, err)
	}
	return connStr, SourceKeyring, nil
}

// MaskPassword hides the password of a URL-form connection string.
func MaskPassword(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil || u.User == nil {
		return connStr
	}
	if _, ok := u.User.Password(); !ok {
		return connStr
	}
	u.User = url.UserPassword(u.User.Username(), "****")
	// url escapes the asterisks
	return strings.Replace(u.String(), "%2A%2A%2A%2A", "****", 1)
}

func isPostgresURL(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://")
}

func isComplete(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Host != "" && u.User != nil && u.User.Username() != ""
}
