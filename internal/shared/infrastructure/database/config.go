package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds database configuration.
type Config struct {
	// Driver is detected from URL when empty or "auto".
	Driver Driver

	// URL is the PostgreSQL connection string.
	URL string

	// SQLitePath defaults to ~/.trainbook/trainbook.db.
	SQLitePath string

	// MaxConns caps the PostgreSQL pool.
	MaxConns int
}

// ResolveDriver returns the configured driver, detecting it from URL if needed.
func (c Config) ResolveDriver() (Driver, error) {
	driver := c.Driver
	if driver == "" || driver == "auto" {
		driver = DetectDriver(c.URL)
	}
	if !driver.IsValid() {
		return "", fmt.Errorf("unsupported database driver: %s", driver)
	}
	return driver, nil
}

// ResolveSQLitePath returns the database file for local mode. A sqlite URL
// takes precedence over SQLitePath.
func (c Config) ResolveSQLitePath() string {
	if c.URL != "" && DetectDriver(c.URL) == DriverSQLite {
		path := strings.TrimPrefix(c.URL, "sqlite://")
		return path
	}
	if c.SQLitePath != "" {
		return c.SQLitePath
	}
	return DefaultSQLitePath()
}

// DefaultSQLitePath returns the default SQLite database path.
func DefaultSQLitePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".trainbook", "trainbook.db")
}

// EnsureDirectory creates the parent directory of path.
func EnsureDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
