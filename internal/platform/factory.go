package platform

import (
	"fmt"
	"log/slog"

	"github.com/wolfej94/NotesStorage/pkg/adapters/memory"
	"github.com/wolfej94/NotesStorage/pkg/adapters/sqlite"
	"github.com/wolfej94/NotesStorage/pkg/core"
)

// Settings carries the resolved configuration back to the composition root.
type Settings struct {
	Logger      *slog.Logger
	Adapter     string
	EventBuffer int
}

// Open resolves the options and opens the configured store. The uri is
// adapter-specific: a file path for "sqlite", ignored by "memory".
func Open(uri string, opts ...Option) (core.Store, Settings, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	settings := Settings{
		Logger:      o.logger,
		Adapter:     o.adapter,
		EventBuffer: o.eventBuffer,
	}

	if o.store != nil {
		settings.Adapter = "custom"
		return o.store, settings, nil
	}

	switch o.adapter {
	case "sqlite":
		store, err := sqlite.Open(sqlite.Config{
			Path:        uri,
			Logger:      o.logger,
			BusyTimeout: o.busyTimeout,
		})
		if err != nil {
			return nil, settings, err
		}
		return store, settings, nil
	case "memory":
		return memory.NewStore(), settings, nil
	default:
		return nil, settings, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}
