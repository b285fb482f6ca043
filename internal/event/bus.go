// Package event carries dashboard notifications from the mutation layer to
// realtime subscribers. Publishing is fire-and-forget: a full buffer or an
// absent subscriber never blocks or fails the mutation that produced the
// event.
package event

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Kind discriminates event payloads on the wire.
type Kind string

const (
	// KindTaskUpdated is emitted after a task field mutation commits.
	KindTaskUpdated Kind = "task_updated"
	// KindTaskCommented is emitted after a comment on a task commits.
	KindTaskCommented Kind = "task_commented"
)

// Event is one dashboard notification.
type Event struct {
	Kind Kind `json:"kind"`
	// TaskID identifies the task the event concerns.
	TaskID string `json:"task_id"`
	// Changed holds the mutated fields (new values) for task updates.
	Changed map[string]any `json:"changed,omitempty"`
	// Author and Body are set for comment events.
	Author string `json:"author,omitempty"`
	Body   string `json:"body,omitempty"`
}

// Publisher is the mutation layer's side of the bus.
type Publisher interface {
	Publish(e Event)
}

// Bus is a buffered fan-out channel. One dispatcher goroutine drains the
// publish queue and copies each event to every subscriber. Slow subscribers
// lose events rather than slowing anyone down.
//
// The queue channel is never closed, so Publish stays safe to call
// concurrently with Close: a publish that loses that race parks in the
// buffer and is discarded with the bus.
type Bus struct {
	queue   chan Event
	logger  zerolog.Logger
	dropped atomic.Int64

	mu     sync.Mutex
	subs   map[chan Event]struct{}
	closed bool
	stop   chan struct{}
	done   chan struct{}
}

// NewBus creates a bus with the given publish buffer size and starts its
// dispatcher.
func NewBus(buffer int, logger zerolog.Logger) *Bus {
	b := &Bus{
		queue:  make(chan Event, buffer),
		logger: logger,
		subs:   make(map[chan Event]struct{}),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go b.dispatch()
	return b
}

// Publish enqueues an event without blocking. Events are dropped (and
// counted) when the queue is full or the bus is closed.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		b.dropped.Add(1)
		return
	}
	select {
	case b.queue <- e:
	default:
		n := b.dropped.Add(1)
		b.logger.Warn().Str("kind", string(e.Kind)).Int64("dropped_total", n).
			Msg("event queue full, dropping event")
	}
}

// Subscribe registers a new subscriber channel. The caller must drain it and
// call Unsubscribe when done.
func (b *Bus) Subscribe() <-chan Event {
	ch := make(chan Event, 16)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		if sub == ch {
			delete(b.subs, sub)
			close(sub)
			return
		}
	}
}

// Close delivers whatever is already queued, then stops the dispatcher and
// closes all subscriber channels. Publishes after Close are dropped.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	close(b.stop)
	<-b.done
}

// Dropped reports how many events have been discarded since start.
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}

func (b *Bus) dispatch() {
	defer close(b.done)
	for {
		select {
		case e := <-b.queue:
			b.fanOut(e)
		case <-b.stop:
			// Drain events that beat the stop signal into the queue.
			for {
				select {
				case e := <-b.queue:
					b.fanOut(e)
				default:
					b.closeSubs()
					return
				}
			}
		}
	}
}

func (b *Bus) fanOut(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		select {
		case sub <- e:
		default:
			n := b.dropped.Add(1)
			b.logger.Warn().Str("kind", string(e.Kind)).Int64("dropped_total", n).
				Msg("slow subscriber, dropping event")
		}
	}
}

func (b *Bus) closeSubs() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		delete(b.subs, sub)
		close(sub)
	}
}

var _ Publisher = (*Bus)(nil)
