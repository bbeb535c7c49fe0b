// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package catalog exports finished discovery documents into a SQLite
// database so endpoints from every root node can be queried together.
package catalog

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sirseerhq/sirseer-scout/internal/state"
)

// Catalog handles all database operations
type Catalog struct {
	db  *sql.DB
	now func() time.Time
}

// Entry is one catalogued endpoint.
type Entry struct {
	Target     string
	URL        string
	Data       string
	RecordedAt time.Time
}

// Open opens or creates the database at path and initializes the schema.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to catalog: %w", err)
	}

	c := &Catalog{db: db, now: time.Now}
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize catalog schema: %w", err)
	}
	return c, nil
}

// initSchema creates tables and indices if they don't exist
func (c *Catalog) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS endpoints (
		endpoint_id INTEGER PRIMARY KEY AUTOINCREMENT,
		target TEXT NOT NULL,
		url TEXT NOT NULL,
		data TEXT,
		recorded_at TIMESTAMP NOT NULL,
		UNIQUE(target, url)
	);

	CREATE TABLE IF NOT EXISTS paths (
		path_id INTEGER PRIMARY KEY AUTOINCREMENT,
		target TEXT NOT NULL,
		path TEXT NOT NULL,
		UNIQUE(target, path)
	);

	CREATE INDEX IF NOT EXISTS idx_endpoints_target ON endpoints(target);
	CREATE INDEX IF NOT EXISTS idx_paths_target ON paths(target);
	`

	_, err := c.db.Exec(schema)
	return err
}

// Record upserts every endpoint and completed path of doc in one
// transaction. Existing endpoints get the newer payload.
func (c *Catalog) Record(doc *state.Document) (err error) {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin catalog transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	recordedAt := c.now().UTC()
	for _, ep := range doc.Endpoints {
		_, err = tx.Exec(`
			INSERT INTO endpoints (target, url, data, recorded_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(target, url) DO UPDATE SET
				data = EXCLUDED.data,
				recorded_at = EXCLUDED.recorded_at
		`, doc.TargetNode, ep.URL, string(ep.Data), recordedAt)
		if err != nil {
			return fmt.Errorf("failed to upsert endpoint %s: %w", ep.URL, err)
		}
	}

	for _, path := range doc.CompletedPaths {
		_, err = tx.Exec(`
			INSERT INTO paths (target, path) VALUES (?, ?)
			ON CONFLICT(target, path) DO NOTHING
		`, doc.TargetNode, path)
		if err != nil {
			return fmt.Errorf("failed to upsert path %s: %w", path, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog transaction: %w", err)
	}
	return nil
}

// Count returns the number of endpoints catalogued for target.
func (c *Catalog) Count(target string) (int, error) {
	var n int
	err := c.db.QueryRow("SELECT COUNT(*) FROM endpoints WHERE target = ?", target).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count endpoints: %w", err)
	}
	return n, nil
}

// Endpoints returns the endpoints catalogued for target ordered by URL.
func (c *Catalog) Endpoints(target string) ([]Entry, error) {
	rows, err := c.db.Query(`
		SELECT target, url, data, recorded_at
		FROM endpoints
		WHERE target = ?
		ORDER BY url ASC
	`, target)
	if err != nil {
		return nil, fmt.Errorf("failed to load endpoints: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var data sql.NullString
		if err := rows.Scan(&e.Target, &e.URL, &data, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan endpoint: %w", err)
		}
		e.Data = data.String
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating endpoints: %w", err)
	}
	return entries, nil
}

// Close closes the database connection
func (c *Catalog) Close() error {
	return c.db.Close()
}
