package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MemoryPath is the SQLite path for a private in-memory database.
const MemoryPath = ":memory:"

// Config holds database configuration.
type Config struct {
	// Driver specifies the database driver to use.
	// If empty or "auto", it is detected from the URL.
	Driver Driver

	// URL is the connection string for PostgreSQL.
	URL string

	// SQLitePath is the SQLite file, or MemoryPath. Defaults to ~/.habittracker/habits.db.
	SQLitePath string

	// MaxConns is the maximum number of pooled connections (PostgreSQL only).
	MaxConns int
}

// NewConnection opens a connection using the driver registered for cfg.
// Driver packages register themselves from init, so callers blank-import
// the ones they need.
func NewConnection(ctx context.Context, cfg Config) (Connection, error) {
	driver := cfg.Driver
	if driver == "" || driver == "auto" {
		driver = DetectDriver(cfg.URL)
	}

	var open Opener
	switch driver {
	case DriverPostgres:
		open = openPostgres
	case DriverSQLite:
		open = openSQLite
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	if open == nil {
		return nil, fmt.Errorf("database driver %s is not registered", driver)
	}
	return open(ctx, cfg)
}

// DefaultSQLitePath returns the default SQLite database path.
func DefaultSQLitePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".habittracker", "habits.db")
}

// forbiddenPathChars are shell metacharacters never found in a sane
// database path.
var forbiddenPathChars = []string{";", "&", "|", "$", "`", "<", ">", "\n", "\r", "\x00"}

// CleanSQLitePath rejects paths carrying shell metacharacters and returns
// the cleaned absolute form. MemoryPath and file: URIs are returned unchanged.
func CleanSQLitePath(path string) (string, error) {
	if path == MemoryPath {
		return path, nil
	}
	if path == "" {
		return "", fmt.Errorf("sqlite path cannot be empty")
	}
	for _, c := range forbiddenPathChars {
		if strings.Contains(path, c) {
			return "", fmt.Errorf("sqlite path contains forbidden character %q", c)
		}
	}
	if strings.HasPrefix(path, "file:") {
		return path, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve sqlite path: %w", err)
	}
	return abs, nil
}

// EnsureDirectory creates the parent directory for a file path if it doesn't exist.
func EnsureDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

// Opener opens a driver-specific connection.
type Opener func(ctx context.Context, cfg Config) (Connection, error)

var (
	openPostgres Opener
	openSQLite   Opener
)

// RegisterPostgresDriver registers the PostgreSQL connection factory.
func RegisterPostgresDriver(fn Opener) { openPostgres = fn }

// RegisterSQLiteDriver registers the SQLite connection factory.
func RegisterSQLiteDriver(fn Opener) { openSQLite = fn }
