package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/wolfej94/NotesStorage/pkg/core"
	"github.com/wolfej94/NotesStorage/pkg/engine"
)

const debounceDelay = 100 * time.Millisecond

// Watch implements core.Watchable. It observes the database file for
// modifications made outside this Store (other processes, or other Store
// handles on the same file) and emits a synthesized change event per note
// whose updated_at moved. Deletions are pruned silently, matching the
// write path, which does not notify on delete either.
//
// The channel is closed when ctx is cancelled.
func (s *Store) Watch(ctx context.Context) (<-chan core.Event, error) {
	events := make(chan core.Event, 64)
	w := newWatchWorker(s, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

type watchWorker struct {
	*worker.BaseWorker
	store    *Store
	events   chan core.Event
	watcher  *fsnotify.Watcher
	cancel   context.CancelFunc
	snapshot map[uuid.UUID]int64
}

func newWatchWorker(store *Store, events chan core.Event) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("sqlite-watcher"),
		store:      store,
		events:     events,
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// SQLite in WAL mode writes to sidecar files next to the database, so
	// the containing directory is watched and events are filtered by name.
	if err := watcher.Add(filepath.Dir(w.store.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch database directory: %w", err)
	}

	snapshot, err := w.takeSnapshot(ctx)
	if err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to prime snapshot: %w", err)
	}

	w.watcher = watcher
	w.snapshot = snapshot

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
		}
	})
}

func (w *watchWorker) run(ctx context.Context) error {
	defer close(w.events)
	defer w.watcher.Close()

	debounce := time.NewTimer(debounceDelay)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			debounce.Reset(debounceDelay)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if w.store.logger != nil {
				w.store.logger.Error("fsnotify error", "error", err)
			}

		case <-debounce.C:
			if err := w.reconcile(ctx); err != nil {
				if w.store.logger != nil {
					w.store.logger.Warn("reconcile failed", "error", err)
				}
			}
		}
	}
}

// relevant filters directory events down to the database file and its WAL
// sidecars (<db>-wal, <db>-shm).
func (w *watchWorker) relevant(name string) bool {
	return strings.HasPrefix(filepath.Base(name), filepath.Base(w.store.path))
}

func (w *watchWorker) reconcile(ctx context.Context) error {
	recs, err := w.store.read.Fetch(ctx, core.Query{Entity: core.EntityNote})
	if err != nil {
		return err
	}

	notes := make([]core.Note, 0, len(recs))
	for _, rec := range recs {
		n, err := engine.ToNote(rec)
		if err != nil {
			// Records without an identifier cannot be attributed to a note.
			if w.store.logger != nil {
				w.store.logger.Debug("skipping record during reconcile", "error", err)
			}
			continue
		}
		notes = append(notes, n)
	}

	events, next := diffSnapshot(w.snapshot, notes)
	w.snapshot = next

	for _, e := range events {
		select {
		case w.events <- e:
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}

// diffSnapshot compares the previous (id -> updated_at) snapshot with the
// current notes and returns one event per new or modified note, plus the
// snapshot to carry forward. Notes absent from the current set are dropped
// from the snapshot without an event.
func diffSnapshot(prev map[uuid.UUID]int64, notes []core.Note) ([]core.Event, map[uuid.UUID]int64) {
	next := make(map[uuid.UUID]int64, len(notes))
	var events []core.Event

	now := time.Now().Unix()
	for _, n := range notes {
		var stamp int64
		if n.UpdatedAt != nil {
			stamp = n.UpdatedAt.UnixNano()
		}
		next[n.ID] = stamp

		old, known := prev[n.ID]
		switch {
		case !known:
			events = append(events, core.Event{Type: core.EventCreate, Note: n, Timestamp: now})
		case old != stamp:
			events = append(events, core.Event{Type: core.EventModify, Note: n, Timestamp: now})
		}
	}
	return events, next
}

func (w *watchWorker) takeSnapshot(ctx context.Context) (map[uuid.UUID]int64, error) {
	recs, err := w.store.read.Fetch(ctx, core.Query{Entity: core.EntityNote})
	if err != nil {
		return nil, err
	}
	snapshot := make(map[uuid.UUID]int64, len(recs))
	for _, rec := range recs {
		if rec.ID == nil {
			continue
		}
		var stamp int64
		if rec.UpdatedAt != nil {
			stamp = rec.UpdatedAt.UnixNano()
		}
		snapshot[*rec.ID] = stamp
	}
	return snapshot, nil
}
