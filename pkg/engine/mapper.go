// Package engine implements the CRUD semantics of the storage layer against
// the core.Context abstraction. It is the single source of truth for error
// classification; store-level failures pass through wrapped, never
// reinterpreted.
package engine

import (
	"github.com/wolfej94/NotesStorage/pkg/core"
)

// ToNote reconstructs a value object from a persisted record.
// A record without an identifier fails with core.ErrMissingIdentifier.
// Nil title or body map to empty strings; timestamps pass through as-is.
func ToNote(rec *core.Record) (core.Note, error) {
	if rec.ID == nil {
		return core.Note{}, core.ErrMissingIdentifier
	}
	n := core.Note{
		ID:        *rec.ID,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	if rec.Title != nil {
		n.Title = *rec.Title
	}
	if rec.Body != nil {
		n.Body = *rec.Body
	}
	return n, nil
}

// Apply copies the note's fields onto the record in place. The record's
// locator is left untouched.
func Apply(n core.Note, rec *core.Record) {
	id := n.ID
	title := n.Title
	body := n.Body
	rec.ID = &id
	rec.Title = &title
	rec.Body = &body
	rec.CreatedAt = n.CreatedAt
	rec.UpdatedAt = n.UpdatedAt
}
