package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// SQLiteTier is the durable tier: a single key-value table in a local
// SQLite database that survives restarts.
type SQLiteTier struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed creates) the durable store at dsn.
// It applies recommended pragmas and creates the kv table.
func OpenSQLite(dsn string) (*SQLiteTier, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}

	return &SQLiteTier{db: db}, nil
}

func (t *SQLiteTier) Name() string { return "sqlite" }

func (t *SQLiteTier) Probe() bool {
	if err := t.Set(probeKey, "1"); err != nil {
		return false
	}
	return t.Remove(probeKey) == nil
}

func (t *SQLiteTier) Set(key, value string) error {
	_, err := t.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("sqlite set %q: %w", key, err)
	}
	return nil
}

func (t *SQLiteTier) Get(key string) (string, bool) {
	var value string
	err := t.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", false
	}
	return value, true
}

func (t *SQLiteTier) Remove(key string) error {
	if _, err := t.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("sqlite remove %q: %w", key, err)
	}
	return nil
}

// Close closes the database connection.
func (t *SQLiteTier) Close() error {
	return t.db.Close()
}

// applyPragmas configures SQLite for single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. LID_DB environment variable
// 2. $XDG_DATA_HOME/lid/lid.db
// 3. ~/.local/share/lid/lid.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("LID_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "lid", "lid.db")
	return p, EnsureDir(p)
}

// DefaultJarPath resolves the legacy jar file path next to the database.
func DefaultJarPath() (string, error) {
	dbPath, err := DefaultDBPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(dbPath), "jar.json"), nil
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
