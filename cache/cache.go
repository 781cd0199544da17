// Package cache keeps discovered command descriptions in SQLite so repeated
// spec generation for the same CLI version skips help discovery.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog/log"

	"github.com/aallbrig/compspec/models"
)

// Cache stores and retrieves command descriptions.
type Cache struct {
	db *sql.DB
}

// Entry describes one cached description.
type Entry struct {
	Key      string
	CLI      string
	Version  string
	Strategy string
	CachedAt time.Time
}

// Open opens (or creates) the cache database at dir/cache.db.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	db, err := sql.Open("sqlite3", filepath.Join(dir, "cache.db"))
	if err != nil {
		return nil, fmt.Errorf("open sqlite3: %w", err)
	}
	c := &Cache{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache: %w", err)
	}
	return c, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error { return c.db.Close() }

const schema = `
CREATE TABLE IF NOT EXISTS commands (
	key       TEXT PRIMARY KEY,
	cli       TEXT NOT NULL,
	version   TEXT NOT NULL,
	strategy  TEXT NOT NULL,
	data      TEXT NOT NULL,
	cached_at INTEGER NOT NULL
);
`

func (c *Cache) migrate() error {
	_, err := c.db.Exec(schema)
	return err
}

// schemaVersion is part of every key; bump it when models.Command changes
// shape so stale rows stop matching.
const schemaVersion = "c1"

// Key derives a cache key from the CLI name, its version string and the
// discovery strategies used.
func Key(cli, version string, strategies []string) string {
	s := cli + "|" + version + "|" + strings.Join(strategies, ",") + "|" + schemaVersion
	h := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", h[:8])
}

// Get returns the cached description for key, or nil, nil when there is none
// or it is older than maxAge. A maxAge of zero never expires.
func (c *Cache) Get(key string, maxAge time.Duration) (*models.Command, error) {
	var (
		data     string
		cachedAt int64
	)
	err := c.db.QueryRow(`SELECT data, cached_at FROM commands WHERE key = ?`, key).Scan(&data, &cachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache entry: %w", err)
	}
	if maxAge > 0 && time.Since(time.Unix(cachedAt, 0)) > maxAge {
		log.Debug().Str("key", key).Msg("cache entry expired")
		return nil, nil
	}
	var cmd models.Command
	if err := json.Unmarshal([]byte(data), &cmd); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	return &cmd, nil
}

// Put stores a description, replacing any entry under the same key.
func (c *Cache) Put(key, cli, version, strategy string, cmd *models.Command) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO commands (key, cli, version, strategy, data, cached_at) VALUES (?,?,?,?,?,?)`,
		key, cli, version, strategy, string(data), time.Now().Unix(),
	)
	return err
}

// Delete removes an entry from the cache.
func (c *Cache) Delete(key string) error {
	_, err := c.db.Exec(`DELETE FROM commands WHERE key = ?`, key)
	return err
}

// Clear removes all entries from the cache.
func (c *Cache) Clear() error {
	_, err := c.db.Exec(`DELETE FROM commands`)
	return err
}

// ClearCLI removes all cached entries for a specific CLI name.
func (c *Cache) ClearCLI(cli string) error {
	_, err := c.db.Exec(`DELETE FROM commands WHERE cli = ?`, cli)
	return err
}

// ListCLIs returns the names of all CLIs currently in the cache.
func (c *Cache) ListCLIs() ([]string, error) {
	rows, err := c.db.Query(`SELECT DISTINCT cli FROM commands ORDER BY cli`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Entries lists cached descriptions, newest first.
func (c *Cache) Entries() ([]Entry, error) {
	rows, err := c.db.Query(`SELECT key, cli, version, strategy, cached_at FROM commands ORDER BY cached_at DESC, cli`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var (
			e  Entry
			ts int64
		)
		if err := rows.Scan(&e.Key, &e.CLI, &e.Version, &e.Strategy, &ts); err != nil {
			return nil, err
		}
		e.CachedAt = time.Unix(ts, 0)
		out = append(out, e)
	}
	return out, rows.Err()
}

// versionTimeout bounds `<cli> --version`; some CLIs ignore the flag and wait
// on stdin.
const versionTimeout = 3 * time.Second

// CLIVersion returns the first line of `<cli> --version`, or "unknown".
func CLIVersion(ctx context.Context, cli string) string {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, cli, "--version").CombinedOutput() //nolint:gosec
	if err != nil || len(out) == 0 {
		return "unknown"
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	if len(line) > 64 {
		line = line[:64]
	}
	return line
}
