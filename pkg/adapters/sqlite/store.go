// Package sqlite implements core.Store on an embedded SQLite database via
// the pure-Go driver (modernc.org/sqlite). It is the default production
// adapter: transactional commits, batch deletes and WAL-mode concurrent
// reads come from the database engine, this package only maps the context
// contract onto it.
package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wolfej94/NotesStorage/pkg/core"
)

// Config holds the configuration for the sqlite store.
type Config struct {
	Path        string
	Logger      *slog.Logger
	BusyTimeout time.Duration
}

const schema = `
CREATE TABLE IF NOT EXISTS notes (
	id         TEXT UNIQUE,
	title      TEXT,
	body       TEXT,
	created_at INTEGER,
	updated_at INTEGER
)`

// Store is a sqlite-backed core.Store. It owns the database handle and the
// two long-lived contexts.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
	read   *Context
	write  *Context
}

// Open opens (creating if necessary) the database at cfg.Path and ensures
// the note schema exists.
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite: path is required")
	}

	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
		cfg.Path, busy.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	s := &Store{
		db:     db,
		path:   cfg.Path,
		logger: cfg.Logger,
	}
	s.read = &Context{store: s, readonly: true}
	s.write = &Context{store: s}

	if s.logger != nil {
		s.logger.Debug("opened sqlite store", "path", cfg.Path)
	}
	return s, nil
}

// ReadContext implements core.Store.
func (s *Store) ReadContext() core.Context { return s.read }

// WriteContext implements core.Store.
func (s *Store) WriteContext() core.Context { return s.write }

// Close implements core.Store.
func (s *Store) Close() error {
	return s.db.Close()
}
