package core

import (
	"context"

	"github.com/google/uuid"
)

// Query selects records of one entity type, optionally narrowed to a set of
// identifiers. A nil IDs slice selects every record of the entity.
type Query struct {
	Entity string
	IDs    []uuid.UUID
}

// Context defines the contract the persistence engine requires from a
// storage context. Adhering to this interface keeps the engine independent
// of the underlying record store; real implementations talk to an embedded
// store, test doubles simulate it.
//
// Mutations are staged: Create registers a new record and Fetch hands out
// live records that may be modified in place; neither touches the store
// until Save commits the staged work atomically.
type Context interface {
	// Fetch returns the records matching the query. Zero matches yield an
	// empty slice, not an error.
	Fetch(ctx context.Context, q Query) ([]*Record, error)

	// Create registers a new, empty record of the given entity with this
	// context. The record is persisted on the next Save.
	Create(ctx context.Context, entity string) *Record

	// Save atomically commits all staged changes.
	Save(ctx context.Context) error

	// ExecuteDelete removes the records behind the given locators in a
	// single batch request. Unknown locators are ignored.
	ExecuteDelete(ctx context.Context, locators []Locator) error

	// RunExclusively executes fn while holding this context's exclusive
	// region. At most one fn runs against a given context at a time; no
	// ordering beyond mutual exclusion is guaranteed.
	RunExclusively(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store owns the underlying record storage and mints the two long-lived
// contexts the service operates on.
type Store interface {
	// ReadContext returns the store's shared read context. It must never be
	// used for writes.
	ReadContext() Context

	// WriteContext returns the store's single write context, the
	// serialization point for all mutations.
	WriteContext() Context

	// Close releases the underlying storage.
	Close() error
}

// Watchable is implemented by stores that can observe out-of-process changes
// to their backing storage.
type Watchable interface {
	// Watch emits an event for every note changed outside this process.
	// The channel is closed when ctx is cancelled.
	Watch(ctx context.Context) (<-chan Event, error)
}
