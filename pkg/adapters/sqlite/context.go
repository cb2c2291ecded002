package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wolfej94/NotesStorage/pkg/core"
)

// Context implements core.Context against the sqlite store. Created and
// fetched records are staged in memory; Save writes them back in a single
// database transaction.
type Context struct {
	store    *Store
	readonly bool

	exclusive sync.Mutex

	mu       sync.Mutex
	inserted []*core.Record
	live     []stagedRecord
}

// stagedRecord pairs a fetched record with its fetch-time snapshot. Save
// writes back only records whose contents moved since the fetch.
type stagedRecord struct {
	rec     *core.Record
	fetched *core.Record
}

// Fetch implements core.Context.
func (c *Context) Fetch(ctx context.Context, q core.Query) ([]*core.Record, error) {
	if q.Entity != core.EntityNote {
		return nil, fmt.Errorf("unknown entity %q", q.Entity)
	}
	if q.IDs != nil && len(q.IDs) == 0 {
		return []*core.Record{}, nil
	}

	query := `SELECT rowid, id, title, body, created_at, updated_at FROM notes`
	var args []any
	if q.IDs != nil {
		query += ` WHERE id IN (?` + strings.Repeat(",?", len(q.IDs)-1) + `)`
		for _, id := range q.IDs {
			args = append(args, id.String())
		}
	}

	rows, err := c.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	recs := make([]*core.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read notes: %w", err)
	}

	if !c.readonly {
		c.mu.Lock()
		for _, rec := range recs {
			c.live = append(c.live, stagedRecord{rec: rec, fetched: rec.Clone()})
		}
		c.mu.Unlock()
	}
	return recs, nil
}

// Create implements core.Context.
func (c *Context) Create(ctx context.Context, entity string) *core.Record {
	rec := &core.Record{Entity: entity}
	c.mu.Lock()
	c.inserted = append(c.inserted, rec)
	c.mu.Unlock()
	return rec
}

// Save implements core.Context. All staged inserts and write-backs commit in
// one transaction. The staging is consumed either way: a failed commit is
// terminal for that batch and is never replayed by a later Save. Records
// fetched but never modified are not written back.
func (c *Context) Save(ctx context.Context) error {
	if c.readonly {
		return core.ErrReadOnly
	}

	c.mu.Lock()
	inserted := c.inserted
	live := c.live
	c.inserted = nil
	c.live = nil
	c.mu.Unlock()

	if len(inserted) == 0 && len(live) == 0 {
		return nil
	}

	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	locators := make([]core.Locator, len(inserted))
	for i, rec := range inserted {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO notes (id, title, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			idArg(rec.ID), rec.Title, rec.Body, timeArg(rec.CreatedAt), timeArg(rec.UpdatedAt))
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert record: %w", err)
		}
		rowid, err := res.LastInsertId()
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to resolve locator: %w", err)
		}
		locators[i] = core.Locator(rowid)
	}

	for _, s := range live {
		if s.rec.EqualValues(s.fetched) {
			continue
		}
		rec := s.rec
		if _, err := tx.ExecContext(ctx,
			`UPDATE notes SET id = ?, title = ?, body = ?, created_at = ?, updated_at = ? WHERE rowid = ?`,
			idArg(rec.ID), rec.Title, rec.Body, timeArg(rec.CreatedAt), timeArg(rec.UpdatedAt), int64(rec.Locator)); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to update record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	for i, rec := range inserted {
		rec.Locator = locators[i]
	}
	return nil
}

// ExecuteDelete implements core.Context. The batch runs as one statement;
// atomicity is the database's.
func (c *Context) ExecuteDelete(ctx context.Context, locators []core.Locator) error {
	if c.readonly {
		return core.ErrReadOnly
	}
	if len(locators) == 0 {
		return nil
	}

	query := `DELETE FROM notes WHERE rowid IN (?` + strings.Repeat(",?", len(locators)-1) + `)`
	args := make([]any, len(locators))
	for i, loc := range locators {
		args[i] = int64(loc)
	}
	if _, err := c.store.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete records: %w", err)
	}
	return nil
}

// RunExclusively implements core.Context.
func (c *Context) RunExclusively(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.exclusive.Lock()
	defer c.exclusive.Unlock()
	return fn(ctx)
}

func scanRecord(rows *sql.Rows) (*core.Record, error) {
	var (
		rowid     int64
		id        sql.NullString
		title     sql.NullString
		body      sql.NullString
		createdAt sql.NullInt64
		updatedAt sql.NullInt64
	)
	if err := rows.Scan(&rowid, &id, &title, &body, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan note row: %w", err)
	}

	rec := &core.Record{
		Entity:  core.EntityNote,
		Locator: core.Locator(rowid),
	}
	if id.Valid {
		// A malformed identifier is treated like a missing one: the record
		// surfaces without an ID and reads fail with ErrMissingIdentifier.
		if parsed, err := uuid.Parse(id.String); err == nil {
			rec.ID = &parsed
		}
	}
	if title.Valid {
		v := title.String
		rec.Title = &v
	}
	if body.Valid {
		v := body.String
		rec.Body = &v
	}
	if createdAt.Valid {
		t := time.Unix(0, createdAt.Int64)
		rec.CreatedAt = &t
	}
	if updatedAt.Valid {
		t := time.Unix(0, updatedAt.Int64)
		rec.UpdatedAt = &t
	}
	return rec, nil
}

func idArg(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

func timeArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixNano()
}
