// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/bibcomplete/pkg/types"
)

// DefaultCacheTTL is how long a cached source response stays fresh.
const DefaultCacheTTL = 21 * 24 * time.Hour

// Cache persists source responses in a SQLite database so repeated
// runs over the same file do not re-query the sources.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
}

// OpenCache opens or creates the response cache at path, creating the
// parent directory if needed.
func OpenCache(path string, ttl time.Duration) (*Cache, error) {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	c := &Cache{db: db, ttl: ttl}
	if err := c.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return c, nil
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) createSchema() error {
	_, err := c.db.Exec(`CREATE TABLE IF NOT EXISTS responses (
		source TEXT NOT NULL,
		entry_key TEXT NOT NULL,
		fetched_at INTEGER NOT NULL,
		payload TEXT NOT NULL,
		PRIMARY KEY (source, entry_key)
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Get returns the cached result for (source, entry key), if a fresh
// one exists. A decode failure is treated as a miss so a corrupt row
// gets overwritten on the next Put.
func (c *Cache) Get(source, entryKey string) (types.SourceResult, bool) {
	var fetchedAt int64
	var payload string
	err := c.db.QueryRow(
		`SELECT fetched_at, payload FROM responses WHERE source = ? AND entry_key = ?`,
		source, entryKey,
	).Scan(&fetchedAt, &payload)
	if err != nil {
		return types.SourceResult{}, false
	}
	if time.Since(time.Unix(fetchedAt, 0)) > c.ttl {
		return types.SourceResult{}, false
	}

	var res types.SourceResult
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return types.SourceResult{}, false
	}
	res.Query.FromCache = true
	return res, true
}

// Put stores a result, replacing any previous row for the same source
// and entry key. Misses are cached too.
func (c *Cache) Put(source, entryKey string, res types.SourceResult) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encoding cached result: %w", err)
	}
	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO responses (source, entry_key, fetched_at, payload) VALUES (?, ?, ?, ?)`,
		source, entryKey, time.Now().Unix(), string(payload),
	)
	if err != nil {
		return fmt.Errorf("writing cached result: %w", err)
	}
	return nil
}
