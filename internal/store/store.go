// Package store persists named pane layouts in SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // register sqlite driver

	"github.com/xonecas/panes/internal/sizing"
)

const schema = `
CREATE TABLE IF NOT EXISTS layouts (
	name      TEXT PRIMARY KEY,
	sizes     TEXT NOT NULL,
	collapsed TEXT NOT NULL,
	restore   TEXT NOT NULL DEFAULT '{}',
	updated   INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_layouts_updated ON layouts(updated);
`

// Layout is a saved splitter state.
type Layout struct {
	Name    string
	State   sizing.State
	Updated time.Time
}

// Store is a SQLite-backed layout store. Methods on a nil *Store are no-ops
// so callers can run without persistence.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open creates or opens the layout database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open layout db: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	// Databases written before restore sizes were kept lack the column.
	if !hasColumn(db, "layouts", "restore") {
		if _, err := db.Exec("ALTER TABLE layouts ADD COLUMN restore TEXT NOT NULL DEFAULT '{}'"); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate layouts: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// Save writes st under name, replacing any previous layout of that name.
func (s *Store) Save(name string, st sizing.State) error {
	if s == nil {
		return nil
	}
	if name == "" {
		return errors.New("save layout: empty name")
	}
	sizes, err := json.Marshal(st.Sizes)
	if err != nil {
		return fmt.Errorf("save layout %q: %w", name, err)
	}
	collapsed, err := json.Marshal(orEmpty(st.Collapsed))
	if err != nil {
		return fmt.Errorf("save layout %q: %w", name, err)
	}
	restore, err := json.Marshal(st.Restore)
	if err != nil {
		return fmt.Errorf("save layout %q: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO layouts (name, sizes, collapsed, restore, updated) VALUES (?, ?, ?, ?, ?)",
		name, string(sizes), string(collapsed), string(restore), time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("save layout %q: %w", name, err)
	}
	log.Debug().Str("layout", name).Floats64("sizes", st.Sizes).Msg("store: saved layout")
	return nil
}

// Load returns the layout saved under name. A miss, a nil store and an
// unreadable row all report false; unreadable rows are logged.
func (s *Store) Load(name string) (sizing.State, bool) {
	if s == nil {
		return sizing.State{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var sizes, collapsed, restore string
	err := s.db.QueryRow(
		"SELECT sizes, collapsed, restore FROM layouts WHERE name = ?", name,
	).Scan(&sizes, &collapsed, &restore)
	if errors.Is(err, sql.ErrNoRows) {
		return sizing.State{}, false
	}
	if err != nil {
		log.Warn().Err(err).Str("layout", name).Msg("failed to read layout")
		return sizing.State{}, false
	}
	st, err := decodeState(sizes, collapsed, restore)
	if err != nil {
		log.Warn().Err(err).Str("layout", name).Msg("discarding corrupt layout")
		return sizing.State{}, false
	}
	return st, true
}

// Delete removes the layout saved under name. Deleting a missing layout is
// not an error.
func (s *Store) Delete(name string) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec("DELETE FROM layouts WHERE name = ?", name); err != nil {
		return fmt.Errorf("delete layout %q: %w", name, err)
	}
	return nil
}

// List returns every readable layout, most recently updated first.
func (s *Store) List() ([]Layout, error) {
	if s == nil {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT name, sizes, collapsed, restore, updated FROM layouts ORDER BY updated DESC, name DESC")
	if err != nil {
		return nil, fmt.Errorf("list layouts: %w", err)
	}
	defer rows.Close()

	var out []Layout
	for rows.Next() {
		var name, sizes, collapsed, restore string
		var updated int64
		if err := rows.Scan(&name, &sizes, &collapsed, &restore, &updated); err != nil {
			return nil, fmt.Errorf("list layouts: %w", err)
		}
		st, err := decodeState(sizes, collapsed, restore)
		if err != nil {
			log.Warn().Err(err).Str("layout", name).Msg("skipping corrupt layout")
			continue
		}
		out = append(out, Layout{Name: name, State: st, Updated: time.Unix(0, updated)})
	}
	return out, rows.Err()
}

func decodeState(sizes, collapsed, restore string) (sizing.State, error) {
	var st sizing.State
	if err := json.Unmarshal([]byte(sizes), &st.Sizes); err != nil {
		return st, fmt.Errorf("sizes: %w", err)
	}
	if err := json.Unmarshal([]byte(collapsed), &st.Collapsed); err != nil {
		return st, fmt.Errorf("collapsed: %w", err)
	}
	if err := json.Unmarshal([]byte(restore), &st.Restore); err != nil {
		return st, fmt.Errorf("restore: %w", err)
	}
	return st, nil
}

func orEmpty(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}

// hasColumn checks if a table has a specific column.
func hasColumn(db *sql.DB, table, column string) bool {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table)) //nolint:gosec // table name is hardcoded by caller
	if err != nil {
		return false
	}
	defer rows.Close()
	for rows.Next() {
		var cid int
		var name, typ string
		var notNull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			continue
		}
		if name == column {
			return true
		}
	}
	return false
}
