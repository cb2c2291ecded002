package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/wolfej94/NotesStorage/pkg/core"
)

// Engine implements insert, update, delete and fetch against a
// caller-supplied core.Context. Every mutation runs inside the context's
// exclusive region; callers needing ordering beyond mutual exclusion must
// serialize their own calls.
type Engine struct {
	logger *slog.Logger
}

// New creates an Engine. logger may be nil.
func New(logger *slog.Logger) *Engine {
	return &Engine{logger: logger}
}

// FetchByID returns the record matching id, or nil if there is no match.
// Zero matches are not an error.
func (e *Engine) FetchByID(ctx context.Context, c core.Context, entity string, id uuid.UUID) (*core.Record, error) {
	recs, err := c.Fetch(ctx, core.Query{Entity: entity, IDs: []uuid.UUID{id}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", id, err)
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return recs[0], nil
}

// FetchAll returns the records of the given entity. A nil ids slice selects
// every record. Records of a foreign entity type surface as a
// TypeMismatchError.
func (e *Engine) FetchAll(ctx context.Context, c core.Context, entity string, ids []uuid.UUID) ([]*core.Record, error) {
	recs, err := c.Fetch(ctx, core.Query{Entity: entity, IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s records: %w", entity, err)
	}
	for _, rec := range recs {
		if rec.Entity != entity {
			return nil, &core.TypeMismatchError{Want: entity, Got: rec.Entity}
		}
	}
	return recs, nil
}

// Locators resolves each id independently to its record locator. Ids with no
// matching record are silently dropped; the result may be shorter than ids.
func (e *Engine) Locators(ctx context.Context, c core.Context, entity string, ids []uuid.UUID) ([]core.Locator, error) {
	locators := make([]core.Locator, 0, len(ids))
	for _, id := range ids {
		rec, err := e.FetchByID(ctx, c, entity, id)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			if e.logger != nil {
				e.logger.Debug("skipping unmatched id", "id", id)
			}
			continue
		}
		locators = append(locators, rec.Locator)
	}
	return locators, nil
}

// Insert creates a new record for the note and commits it. The whole
// sequence runs inside the context's exclusive region.
func (e *Engine) Insert(ctx context.Context, c core.Context, n core.Note) error {
	return c.RunExclusively(ctx, func(ctx context.Context) error {
		rec := c.Create(ctx, core.EntityNote)
		Apply(n, rec)
		if err := c.Save(ctx); err != nil {
			return fmt.Errorf("failed to save new record: %w", err)
		}
		if e.logger != nil {
			e.logger.Debug("inserted note", "id", n.ID)
		}
		return nil
	})
}

// Update replaces the stored record's fields from the note; a nil CreatedAt
// keeps the stored creation timestamp. If no record matches the note's id,
// it fails with NotFoundError and no save is attempted.
func (e *Engine) Update(ctx context.Context, c core.Context, n core.Note) error {
	return c.RunExclusively(ctx, func(ctx context.Context) error {
		rec, err := e.FetchByID(ctx, c, core.EntityNote, n.ID)
		if err != nil {
			return err
		}
		if rec == nil {
			return &core.NotFoundError{ID: n.ID}
		}
		// The creation timestamp is set once; an update without one keeps
		// the stored value.
		if n.CreatedAt == nil {
			n.CreatedAt = rec.CreatedAt
		}
		Apply(n, rec)
		if err := c.Save(ctx); err != nil {
			return fmt.Errorf("failed to save record %s: %w", n.ID, err)
		}
		if e.logger != nil {
			e.logger.Debug("updated note", "id", n.ID)
		}
		return nil
	})
}

// Delete issues one batch-delete request for all locators and commits.
// Atomicity of the batch is inherited from the underlying store.
func (e *Engine) Delete(ctx context.Context, c core.Context, locators []core.Locator) error {
	return c.RunExclusively(ctx, func(ctx context.Context) error {
		if err := c.ExecuteDelete(ctx, locators); err != nil {
			return fmt.Errorf("failed to execute batch delete: %w", err)
		}
		if err := c.Save(ctx); err != nil {
			return fmt.Errorf("failed to save after delete: %w", err)
		}
		if e.logger != nil {
			e.logger.Debug("deleted records", "count", len(locators))
		}
		return nil
	})
}
