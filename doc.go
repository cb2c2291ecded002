// Package notesstorage is the composition root for the note storage layer.
//
// It connects the persistence engine (pkg/engine) with the storage adapters
// (pkg/adapters) and the change-notification broker (pkg/broadcast) behind a
// single Service.
//
// Design:
//
//   - **Single write context**: all mutations serialize through one context's
//     exclusive region; reads run on a separate context and do not contend.
//   - **Three delivery styles**: every operation is available blocking, with
//     a completion callback, and as a cold task, all sharing one
//     implementation (pkg/async).
//   - **Change events**: each successful create or update publishes exactly
//     one event to every live subscriber; failed writes publish nothing and
//     deletes never notify.
//   - **Pluggable stores**: the engine depends only on core.Context; the
//     default adapter is an embedded SQLite database, with an in-memory
//     adapter for tests and ephemeral use.
//
// Usage:
//
//	svc, err := notesstorage.New("./notes.db")
//	if err != nil { ... }
//	defer svc.Close()
//
//	err = svc.Create(ctx, core.Note{ID: uuid.New(), Title: "hello"})
//
//	for e := range svc.Subscribe(ctx) {
//		fmt.Println(e)
//	}
package notesstorage
