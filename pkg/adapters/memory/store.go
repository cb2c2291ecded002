// Package memory implements core.Store entirely in memory. It backs tests
// and ephemeral workloads, and doubles as the reference implementation of
// the staged-context contract.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wolfej94/NotesStorage/pkg/core"
)

// row is the store-native copy of a record. Rows never alias the records
// handed out to callers; they change only on Save.
type row struct {
	entity    string
	id        *uuid.UUID
	title     *string
	body      *string
	createdAt *time.Time
	updatedAt *time.Time
}

// Store holds records in a locator-indexed map.
type Store struct {
	mu    sync.RWMutex
	rows  map[core.Locator]*row
	next  int64
	read  *Context
	write *Context
}

// NewStore creates an empty in-memory store with its read and write
// contexts.
func NewStore() *Store {
	s := &Store{rows: make(map[core.Locator]*row)}
	s.read = &Context{store: s, readonly: true}
	s.write = &Context{store: s}
	return s
}

// ReadContext implements core.Store.
func (s *Store) ReadContext() core.Context { return s.read }

// WriteContext implements core.Store.
func (s *Store) WriteContext() core.Context { return s.write }

// Close implements core.Store. It is a no-op for the memory adapter.
func (s *Store) Close() error { return nil }

// Context implements core.Context against the in-memory store.
type Context struct {
	store    *Store
	readonly bool

	// exclusive is the context's exclusive region; staging is guarded
	// separately so Fetch outside RunExclusively stays safe.
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
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var wanted map[uuid.UUID]bool
	if q.IDs != nil {
		wanted = make(map[uuid.UUID]bool, len(q.IDs))
		for _, id := range q.IDs {
			wanted[id] = true
		}
	}

	c.store.mu.RLock()
	locators := make([]core.Locator, 0, len(c.store.rows))
	for loc, r := range c.store.rows {
		if r.entity != q.Entity {
			continue
		}
		if wanted != nil && (r.id == nil || !wanted[*r.id]) {
			continue
		}
		locators = append(locators, loc)
	}
	sort.Slice(locators, func(i, j int) bool { return locators[i] < locators[j] })

	recs := make([]*core.Record, 0, len(locators))
	for _, loc := range locators {
		recs = append(recs, recordFromRow(loc, c.store.rows[loc]))
	}
	c.store.mu.RUnlock()

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

// Save implements core.Context. It writes all staged records back to the
// store under one lock, which makes the commit atomic with respect to other
// contexts. An insert whose id already exists is rejected before anything is
// written; the failure is terminal for the staged batch. Records fetched but
// never modified are not written back.
func (c *Context) Save(ctx context.Context) error {
	if c.readonly {
		return core.ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	inserted := c.inserted
	live := c.live
	c.inserted = nil
	c.live = nil
	c.mu.Unlock()

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	ids := make(map[uuid.UUID]bool, len(c.store.rows))
	for _, r := range c.store.rows {
		if r.id != nil {
			ids[*r.id] = true
		}
	}
	for _, rec := range inserted {
		if rec.ID == nil {
			continue
		}
		if ids[*rec.ID] {
			return fmt.Errorf("duplicate id %s", rec.ID)
		}
		ids[*rec.ID] = true
	}

	for _, rec := range inserted {
		c.store.next++
		loc := core.Locator(c.store.next)
		rec.Locator = loc
		c.store.rows[loc] = rowFromRecord(rec)
	}
	for _, s := range live {
		if s.rec.EqualValues(s.fetched) {
			continue
		}
		if _, ok := c.store.rows[s.rec.Locator]; ok {
			c.store.rows[s.rec.Locator] = rowFromRecord(s.rec)
		}
	}
	return nil
}

// ExecuteDelete implements core.Context. Unknown locators are ignored.
func (c *Context) ExecuteDelete(ctx context.Context, locators []core.Locator) error {
	if c.readonly {
		return core.ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	for _, loc := range locators {
		delete(c.store.rows, loc)
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

func rowFromRecord(rec *core.Record) *row {
	return &row{
		entity:    rec.Entity,
		id:        cloneUUID(rec.ID),
		title:     cloneString(rec.Title),
		body:      cloneString(rec.Body),
		createdAt: cloneTime(rec.CreatedAt),
		updatedAt: cloneTime(rec.UpdatedAt),
	}
}

func recordFromRow(loc core.Locator, r *row) *core.Record {
	return &core.Record{
		Entity:    r.entity,
		ID:        cloneUUID(r.id),
		Title:     cloneString(r.title),
		Body:      cloneString(r.body),
		CreatedAt: cloneTime(r.createdAt),
		UpdatedAt: cloneTime(r.updatedAt),
		Locator:   loc,
	}
}

func cloneUUID(v *uuid.UUID) *uuid.UUID {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
