// Package broadcast fans committed change events out to live subscribers.
//
// Publish never blocks and never waits on a subscriber: each subscription
// carries its own unbounded pending queue drained by a managed goroutine.
// Delivery to a given subscriber is in publish order, without loss or
// duplication. No backpressure policy is applied; an unconsumed queue grows
// until its subscriber is cancelled.
package broadcast

import (
	"context"
	"sync"

	"github.com/aretw0/lifecycle"

	"github.com/wolfej94/NotesStorage/pkg/core"
)

// DefaultBuffer is the delivery channel buffer handed to subscribers.
const DefaultBuffer = 100

// Broker is a single-producer, multi-registration broadcast of change
// events. The zero value is not usable; use New.
type Broker struct {
	mu     sync.Mutex
	subs   map[int]*subscriber
	next   int
	buffer int
}

type subscriber struct {
	mu      sync.Mutex
	pending []core.Event
	out     chan core.Event
	wake    chan struct{}
}

// New creates a broker. buffer sizes each subscriber's delivery channel;
// zero or negative means DefaultBuffer. The pending queue behind the channel
// is unbounded either way.
func New(buffer int) *Broker {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Broker{
		subs:   make(map[int]*subscriber),
		buffer: buffer,
	}
}

// Publish enqueues the event for every live subscriber and returns
// immediately.
func (b *Broker) Publish(e core.Event) {
	b.mu.Lock()
	targets := make([]*subscriber, 0, len(b.subs))
	for _, s := range b.subs {
		targets = append(targets, s)
	}
	b.mu.Unlock()

	for _, s := range targets {
		s.mu.Lock()
		s.pending = append(s.pending, e)
		s.mu.Unlock()
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
}

// Subscribe registers a new consumer and returns its event channel. Every
// subscriber receives every event published after it subscribed. Cancelling
// ctx detaches the subscriber and closes the channel; no event is delivered
// afterwards. Other subscribers and the publisher are unaffected.
func (b *Broker) Subscribe(ctx context.Context) <-chan core.Event {
	s := &subscriber{
		out:  make(chan core.Event, b.buffer),
		wake: make(chan struct{}, 1),
	}

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = s
	b.mu.Unlock()

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(s.out)
		}()
		for {
			e, ok := s.take()
			if !ok {
				select {
				case <-ctx.Done():
					return nil
				case <-s.wake:
					continue
				}
			}
			select {
			case s.out <- e:
			case <-ctx.Done():
				return nil
			}
		}
	})

	return s.out
}

// Subscribers returns the number of live subscriptions.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (s *subscriber) take() (core.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return core.Event{}, false
	}
	e := s.pending[0]
	s.pending = s.pending[1:]
	return e, true
}
