package core

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Common errors.
var (
	// ErrMissingIdentifier signals that a persisted record lacks an ID and
	// cannot be reconstructed into a Note.
	ErrMissingIdentifier = errors.New("record is missing an identifier")

	// ErrReadOnly signals a write attempted on a read context.
	ErrReadOnly = errors.New("context is read-only")
)

// NotFoundError signals that an update targeted a record that does not exist.
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("object not found: %s", e.ID)
}

// TypeMismatchError signals that the underlying store returned records of an
// unexpected entity type.
type TypeMismatchError struct {
	Want string
	Got  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %q, store returned %q", e.Want, e.Got)
}
