package inmemory

import (
	"context"
	"errors"
	"sync"
)

var ErrSubscriberFull = errors.New("subscriber buffer full")

// EventBus fans out events per topic to buffered subscriber channels.
// Publish never blocks: a subscriber whose buffer is full misses the event.
type EventBus[T any] struct {
	mu sync.RWMutex
	// topic -> set of channels
	subs   map[string]map[chan T]struct{}
	buf    int
	closed bool
}

func NewEventBus[T any](buf int) *EventBus[T] {
	if buf <= 0 {
		buf = 64
	}
	return &EventBus[T]{
		subs: make(map[string]map[chan T]struct{}),
		buf:  buf,
	}
}

// Subscribe returns a channel that is closed once ctx is done or the bus is
// closed.
func (b *EventBus[T]) Subscribe(ctx context.Context, topic string) (<-chan T, error) {
	ch := make(chan T, b.buf)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, nil
	}
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[chan T]struct{})
	}
	b.subs[topic][ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.unsubscribe(topic, ch)
	}()

	return ch, nil
}

func (b *EventBus[T]) unsubscribe(topic string, ch chan T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	set := b.subs[topic]
	if _, ok := set[ch]; !ok {
		return
	}
	delete(set, ch)
	if len(set) == 0 {
		delete(b.subs, topic)
	}
	close(ch)
}

// Publish delivers event to every subscriber of topic. It reports
// ErrSubscriberFull if at least one subscriber had no room left.
func (b *EventBus[T]) Publish(_ context.Context, topic string, event T) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var dropped bool
	for ch := range b.subs[topic] {
		select {
		case ch <- event:
		default:
			dropped = true
		}
	}
	if dropped {
		return ErrSubscriberFull
	}
	return nil
}

// Close closes every subscriber channel. Later publishes are no-ops.
func (b *EventBus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for topic, set := range b.subs {
		for ch := range set {
			close(ch)
		}
		delete(b.subs, topic)
	}
}
