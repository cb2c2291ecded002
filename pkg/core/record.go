package core

import (
	"time"

	"github.com/google/uuid"
)

// Locator is an opaque handle identifying a specific persisted record for
// targeted update and delete without re-fetching. Its value is meaningful
// only to the Store that issued it.
type Locator int64

// Record is the storage-native representation of a note.
// Unlike Note, every field is optional: the storage layer may hold records
// with no identifier, and reconstructing such a record is a distinguished
// failure (ErrMissingIdentifier).
type Record struct {
	Entity    string
	ID        *uuid.UUID
	Title     *string
	Body      *string
	CreatedAt *time.Time
	UpdatedAt *time.Time

	// Locator is assigned by the store once the record is persisted.
	// It is zero for records that have not been saved yet.
	Locator Locator
}

// Clone returns a deep copy of the record. Stores snapshot fetched records
// with it so commit can tell modified records from untouched ones.
func (r *Record) Clone() *Record {
	c := *r
	if r.ID != nil {
		id := *r.ID
		c.ID = &id
	}
	if r.Title != nil {
		v := *r.Title
		c.Title = &v
	}
	if r.Body != nil {
		v := *r.Body
		c.Body = &v
	}
	if r.CreatedAt != nil {
		t := *r.CreatedAt
		c.CreatedAt = &t
	}
	if r.UpdatedAt != nil {
		t := *r.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}

// EqualValues reports whether two records carry the same field values.
func (r *Record) EqualValues(o *Record) bool {
	return r.Entity == o.Entity &&
		r.Locator == o.Locator &&
		equalUUID(r.ID, o.ID) &&
		equalString(r.Title, o.Title) &&
		equalString(r.Body, o.Body) &&
		equalTime(r.CreatedAt, o.CreatedAt) &&
		equalTime(r.UpdatedAt, o.UpdatedAt)
}

func equalUUID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
