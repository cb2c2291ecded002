package platform

import (
	"log/slog"
	"time"

	"github.com/wolfej94/NotesStorage/pkg/core"
)

// options holds the internal configuration for the storage service.
type options struct {
	store       core.Store
	logger      *slog.Logger
	adapter     string
	eventBuffer int
	busyTimeout time.Duration
}

// Option defines a functional option for configuring the service.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: "sqlite",
	}
}

// WithLogger sets the logger for the service and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithAdapter selects the storage adapter by name ("sqlite" or "memory").
// Defaults to "sqlite".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithStore injects a custom store implementation. If provided, the named
// adapter is skipped and the uri is ignored.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithEventBuffer sets the delivery channel buffer handed to change-event
// subscribers. Zero means the broadcast default.
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}

// WithBusyTimeout sets how long the sqlite adapter waits on a locked
// database before failing. Zero means the adapter default.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) {
		o.busyTimeout = d
	}
}
