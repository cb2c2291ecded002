package notesstorage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/wolfej94/NotesStorage/internal/platform"
	"github.com/wolfej94/NotesStorage/pkg/async"
	"github.com/wolfej94/NotesStorage/pkg/broadcast"
	"github.com/wolfej94/NotesStorage/pkg/core"
	"github.com/wolfej94/NotesStorage/pkg/engine"
)

// Service is the public face of the storage layer. It owns exactly one
// long-lived read context and one long-lived write context for its lifetime,
// and publishes a change event for every successful create or update.
// Deletions do not publish events.
//
// Every operation is offered in three forms with identical outcomes: direct
// blocking (Create), callback (CreateAsync) and cold producer (CreateTask).
type Service struct {
	store    core.Store
	readCtx  core.Context
	writeCtx core.Context
	engine   *engine.Engine
	broker   *broadcast.Broker
	logger   *slog.Logger

	adapter     string
	eventBuffer int
}

func newService(store core.Store, settings platform.Settings) *Service {
	buffer := settings.EventBuffer
	if buffer <= 0 {
		buffer = broadcast.DefaultBuffer
	}
	return &Service{
		store:       store,
		readCtx:     store.ReadContext(),
		writeCtx:    store.WriteContext(),
		engine:      engine.New(settings.Logger),
		broker:      broadcast.New(buffer),
		logger:      settings.Logger,
		adapter:     settings.Adapter,
		eventBuffer: buffer,
	}
}

// Close releases the underlying store. The service must not be used
// afterwards.
func (s *Service) Close() error {
	return s.store.Close()
}

// --- Create ---

// Create persists a new note. Timestamps the caller left nil are assigned
// before the write, and the stored values are carried by the change event.
func (s *Service) Create(ctx context.Context, n core.Note) error {
	return s.create(ctx, n)
}

// CreateTask returns a cold producer performing Create.
func (s *Service) CreateTask(n core.Note) *async.Task[struct{}] {
	return async.New(func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.create(ctx, n)
	})
}

// CreateAsync performs Create in the background and reports to done.
func (s *Service) CreateAsync(ctx context.Context, n core.Note, done func(error)) {
	s.CreateTask(n).Then(ctx, func(_ struct{}, err error) { done(err) })
}

func (s *Service) create(ctx context.Context, n core.Note) error {
	now := time.Now()
	if n.CreatedAt == nil {
		n.CreatedAt = &now
	}
	if n.UpdatedAt == nil {
		n.UpdatedAt = n.CreatedAt
	}

	if err := s.engine.Insert(ctx, s.writeCtx, n); err != nil {
		return err
	}
	s.publish(core.EventCreate, n)
	return nil
}

// --- Update ---

// Update replaces the stored note's fields from n. The note's UpdatedAt is
// refreshed. Updating an unknown id fails with core.NotFoundError and
// publishes nothing.
func (s *Service) Update(ctx context.Context, n core.Note) error {
	return s.update(ctx, n)
}

// UpdateTask returns a cold producer performing Update.
func (s *Service) UpdateTask(n core.Note) *async.Task[struct{}] {
	return async.New(func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.update(ctx, n)
	})
}

// UpdateAsync performs Update in the background and reports to done.
func (s *Service) UpdateAsync(ctx context.Context, n core.Note, done func(error)) {
	s.UpdateTask(n).Then(ctx, func(_ struct{}, err error) { done(err) })
}

func (s *Service) update(ctx context.Context, n core.Note) error {
	now := time.Now()
	n.UpdatedAt = &now

	if err := s.engine.Update(ctx, s.writeCtx, n); err != nil {
		return err
	}
	s.publish(core.EventModify, n)
	return nil
}

// --- Delete ---

// Delete removes the given notes. Only the ids are used; ids with no
// matching record are skipped without error. No change event is published.
func (s *Service) Delete(ctx context.Context, notes []core.Note) error {
	return s.delete(ctx, notes)
}

// DeleteTask returns a cold producer performing Delete.
func (s *Service) DeleteTask(notes []core.Note) *async.Task[struct{}] {
	return async.New(func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.delete(ctx, notes)
	})
}

// DeleteAsync performs Delete in the background and reports to done.
func (s *Service) DeleteAsync(ctx context.Context, notes []core.Note, done func(error)) {
	s.DeleteTask(notes).Then(ctx, func(_ struct{}, err error) { done(err) })
}

func (s *Service) delete(ctx context.Context, notes []core.Note) error {
	ids := make([]uuid.UUID, len(notes))
	for i, n := range notes {
		ids[i] = n.ID
	}

	locators, err := s.engine.Locators(ctx, s.writeCtx, core.EntityNote, ids)
	if err != nil {
		return err
	}
	if len(locators) == 0 {
		return nil
	}
	return s.engine.Delete(ctx, s.writeCtx, locators)
}

// --- Read ---

// Read returns every stored note, in no particular order. A single
// malformed record aborts the whole read; there are no partial results.
func (s *Service) Read(ctx context.Context) ([]core.Note, error) {
	return s.read(ctx)
}

// ReadTask returns a cold producer performing Read.
func (s *Service) ReadTask() *async.Task[[]core.Note] {
	return async.New(func(ctx context.Context) ([]core.Note, error) {
		return s.read(ctx)
	})
}

// ReadAsync performs Read in the background and reports to done.
func (s *Service) ReadAsync(ctx context.Context, done func([]core.Note, error)) {
	s.ReadTask().Then(ctx, done)
}

func (s *Service) read(ctx context.Context) ([]core.Note, error) {
	recs, err := s.engine.FetchAll(ctx, s.readCtx, core.EntityNote, nil)
	if err != nil {
		return nil, err
	}
	notes := make([]core.Note, 0, len(recs))
	for _, rec := range recs {
		n, err := engine.ToNote(rec)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, nil
}

// --- Change events ---

// Subscribe returns a channel receiving every change event published after
// the call, in publish order. Cancelling ctx detaches the subscriber and
// closes the channel; nothing is delivered afterwards.
func (s *Service) Subscribe(ctx context.Context) <-chan core.Event {
	return s.broker.Subscribe(ctx)
}

// Watch is Subscribe with a glob filter on the note title. An empty pattern
// or "*" passes every event through.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" || pattern == "*" {
		return s.broker.Subscribe(ctx), nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern: %s", pattern)
	}

	src := s.broker.Subscribe(ctx)
	out := make(chan core.Event, s.eventBuffer)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		for e := range src {
			if ok, _ := doublestar.Match(pattern, e.Note.Title); !ok {
				continue
			}
			select {
			case out <- e:
			case <-ctx.Done():
				return nil
			}
		}
		return nil
	})
	return out, nil
}

// WatchExternal observes the backing storage for changes made outside this
// process, if the configured store supports it.
func (s *Service) WatchExternal(ctx context.Context) (<-chan core.Event, error) {
	w, ok := s.store.(core.Watchable)
	if !ok {
		return nil, errors.New("store does not support watching")
	}
	return w.Watch(ctx)
}

func (s *Service) publish(t core.EventType, n core.Note) {
	s.broker.Publish(core.Event{Type: t, Note: n, Timestamp: time.Now().Unix()})
	if s.logger != nil {
		s.logger.Debug("published change event", "type", t, "id", n.ID)
	}
}
