package notesstorage

import (
	"log/slog"
	"time"

	"github.com/wolfej94/NotesStorage/internal/platform"
	"github.com/wolfej94/NotesStorage/pkg/core"
)

// Version exposes the version of the library.
const Version = "0.1.0"

// --- Configuration ---

// Option defines a functional option for configuring the service.
type Option = platform.Option

// WithLogger sets the logger for the service and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithAdapter selects the storage adapter by name ("sqlite" or "memory").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithStore allows injecting a custom store implementation.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithEventBuffer sets the subscriber delivery channel buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithBusyTimeout sets the sqlite lock wait before a write fails.
func WithBusyTimeout(d time.Duration) Option {
	return platform.WithBusyTimeout(d)
}

// --- Factory ---

// New opens the configured store and returns a Service bound to it. There is
// no hidden process-wide instance; callers own the returned Service and its
// lifetime, and should Close it when done.
//
//	svc, err := notesstorage.New("./notes.db",
//		notesstorage.WithLogger(logger),
//	)
func New(path string, opts ...Option) (*Service, error) {
	store, settings, err := platform.Open(path, opts...)
	if err != nil {
		return nil, err
	}
	return newService(store, settings), nil
}
