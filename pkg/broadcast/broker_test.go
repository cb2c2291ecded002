package broadcast_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfej94/NotesStorage/pkg/broadcast"
	"github.com/wolfej94/NotesStorage/pkg/core"
)

func event(t core.EventType) core.Event {
	return core.Event{Type: t, Note: core.Note{ID: uuid.New()}, Timestamp: time.Now().UnixNano()}
}

func collect(t *testing.T, ch <-chan core.Event, n int) []core.Event {
	t.Helper()
	got := make([]core.Event, 0, n)
	for len(got) < n {
		select {
		case e, ok := <-ch:
			require.True(t, ok, "channel closed after %d of %d events", len(got), n)
			got = append(got, e)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d events", len(got), n)
		}
	}
	return got
}

func TestBroker_FansOutToEverySubscriber(t *testing.T) {
	b := broadcast.New(0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := b.Subscribe(ctx)
	second := b.Subscribe(ctx)

	published := []core.Event{event(core.EventCreate), event(core.EventModify), event(core.EventModify)}
	for _, e := range published {
		b.Publish(e)
	}

	assert.Equal(t, published, collect(t, first, len(published)))
	assert.Equal(t, published, collect(t, second, len(published)))
}

func TestBroker_PublishNeverBlocksOnSlowSubscriber(t *testing.T) {
	b := broadcast.New(1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Subscribed but never reading. The pending queue absorbs everything.
	slow := b.Subscribe(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			b.Publish(event(core.EventModify))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on an unconsumed subscriber")
	}

	// Everything is still there once the subscriber catches up.
	got := collect(t, slow, 1000)
	assert.Len(t, got, 1000)
}

func TestBroker_CancelDetachesOnlyThatSubscriber(t *testing.T) {
	b := broadcast.New(0)
	root := context.Background()

	keepCtx, keepCancel := context.WithCancel(root)
	defer keepCancel()
	dropCtx, dropCancel := context.WithCancel(root)

	kept := b.Subscribe(keepCtx)
	dropped := b.Subscribe(dropCtx)
	require.Equal(t, 2, b.Subscribers())

	dropCancel()
	assert.Eventually(t, func() bool { return b.Subscribers() == 1 }, 2*time.Second, 10*time.Millisecond)

	// The detached channel closes; the survivor still receives.
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-dropped:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	e := event(core.EventCreate)
	b.Publish(e)
	assert.Equal(t, []core.Event{e}, collect(t, kept, 1))
}

func TestBroker_LateSubscriberMissesEarlierEvents(t *testing.T) {
	b := broadcast.New(0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b.Publish(event(core.EventCreate))

	late := b.Subscribe(ctx)
	fresh := event(core.EventModify)
	b.Publish(fresh)

	assert.Equal(t, []core.Event{fresh}, collect(t, late, 1))
}
