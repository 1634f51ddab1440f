package inmemory

import (
	"context"
	"sync"

	"postgraph/internal/adapter/out/pubsub"
)

const defaultBuffer = 64

type Bus[T any] struct {
	mu sync.RWMutex
	// topic -> set of subscriber channels
	subs   map[string]map[chan T]struct{}
	buf    int
	closed bool
	done   chan struct{}
}

var _ pubsub.Bus[int] = (*Bus[int])(nil)

func New[T any](buf int) *Bus[T] {
	if buf <= 0 {
		buf = defaultBuffer
	}
	return &Bus[T]{
		subs: make(map[string]map[chan T]struct{}),
		buf:  buf,
		done: make(chan struct{}),
	}
}

func (b *Bus[T]) Subscribe(ctx context.Context, topic string) (<-chan T, error) {
	ch := make(chan T, b.buf)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, pubsub.ErrClosed
	}
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[chan T]struct{})
	}
	b.subs[topic][ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-b.done:
		}
		b.unsubscribe(topic, ch)
	}()

	return ch, nil
}

// unsubscribe closes ch unless Close got to it first.
func (b *Bus[T]) unsubscribe(topic string, ch chan T) {
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

func (b *Bus[T]) Publish(_ context.Context, topic string, v T) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return pubsub.ErrClosed
	}
	for ch := range b.subs[topic] {
		select {
		case ch <- v:
		default:
		}
	}
	return nil
}

func (b *Bus[T]) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for topic, set := range b.subs {
		for ch := range set {
			close(ch)
		}
		delete(b.subs, topic)
	}
	close(b.done)
	return nil
}

// Subscribers reports how many subscriptions are open on topic.
func (b *Bus[T]) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
