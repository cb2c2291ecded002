package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EntityNote is the record type name for notes.
const EntityNote = "Note"

// Note is the central entity of the domain.
// It is a plain value object: the engine never mutates a Note in place,
// every write replaces the persisted record's fields from a fresh value.
type Note struct {
	ID    uuid.UUID
	Title string
	Body  string

	// CreatedAt and UpdatedAt are nil only when the note was reconstructed
	// from a record that never carried timestamps.
	CreatedAt *time.Time
	UpdatedAt *time.Time
}

// Equal reports whether two notes denote the same entity.
// Equality is identity-based: two notes with the same ID are the same note
// regardless of title, body or timestamps.
func (n Note) Equal(other Note) bool {
	return n.ID == other.ID
}

// EventType represents the kind of change behind an event.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
)

// Event represents a committed change to a note.
// Events are published only after a successful commit, exactly once per write.
// Deletions do not produce events.
type Event struct {
	Type      EventType
	Note      Note
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Note.ID)
}
