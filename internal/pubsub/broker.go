package pubsub

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const defaultBufferSize = 64

// Broker delivers each published event to every live subscription.
// A subscriber whose buffer is full misses the event; Dropped counts those.
type Broker[T any] struct {
	mu         sync.RWMutex
	subs       map[chan Event[T]]struct{}
	closed     bool
	bufferSize int
	dropped    atomic.Uint64
}

var (
	_ Subscriber[any] = (*Broker[any])(nil)
	_ Publisher[any]  = (*Broker[any])(nil)
)

// NewBroker creates a broker with 64-event subscriber buffers.
func NewBroker[T any]() *Broker[T] {
	return NewBrokerWithBuffer[T](defaultBufferSize)
}

// NewBrokerWithBuffer creates a broker with the given subscriber buffer size.
func NewBrokerWithBuffer[T any](size int) *Broker[T] {
	return &Broker[T]{
		subs:       make(map[chan Event[T]]struct{}),
		bufferSize: size,
	}
}

// Subscribe returns a channel that receives events until ctx is done or
// the broker closes. Subscribing to a closed broker returns a closed channel.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan Event[T])
		close(ch)
		return ch
	}

	sub := make(chan Event[T], b.bufferSize)
	b.subs[sub] = struct{}{}

	context.AfterFunc(ctx, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[sub]; !ok {
			return
		}
		delete(b.subs, sub)
		close(sub)
	})
	return sub
}

// Publish never blocks.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	event := Event[T]{Type: eventType, Payload: payload, Timestamp: time.Now()}
	for sub := range b.subs {
		select {
		case sub <- event:
		default:
			b.dropped.Add(1)
		}
	}
}

// Close closes every subscription. Later calls do nothing.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		delete(b.subs, sub)
		close(sub)
	}
}

// SubscriberCount returns the number of open subscriptions.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped returns how many deliveries were skipped on full buffers.
func (b *Broker[T]) Dropped() uint64 {
	return b.dropped.Load()
}
