// Package redisbus carries bus topics over redis pub/sub so that every
// server instance sees every event.
package redisbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"postgraph/internal/adapter/out/pubsub"
	"postgraph/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultPrefix = "postgraph:"
	defaultBuffer = 64
)

type Bus[T any] struct {
	client redis.UniversalClient
	prefix string
	buf    int

	mu     sync.Mutex
	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

var _ pubsub.Bus[int] = (*Bus[int])(nil)

// New builds a bus on client. The client stays owned by the caller.
func New[T any](client redis.UniversalClient, prefix string, buf int) *Bus[T] {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if buf <= 0 {
		buf = defaultBuffer
	}
	return &Bus[T]{
		client: client,
		prefix: prefix,
		buf:    buf,
		done:   make(chan struct{}),
	}
}

func (b *Bus[T]) channel(topic string) string {
	return b.prefix + topic
}

func (b *Bus[T]) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func (b *Bus[T]) Publish(ctx context.Context, topic string, v T) error {
	if b.isClosed() {
		return pubsub.ErrClosed
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}
	if err := b.client.Publish(ctx, b.channel(topic), payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", topic, err)
	}
	return nil
}

func (b *Bus[T]) Subscribe(ctx context.Context, topic string) (<-chan T, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, pubsub.ErrClosed
	}
	b.wg.Add(1)
	b.mu.Unlock()

	ps := b.client.Subscribe(ctx, b.channel(topic))
	// wait for the subscription confirmation so nothing published after
	// Subscribe returns is missed
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		b.wg.Done()
		return nil, fmt.Errorf("redis subscribe %s: %w", topic, err)
	}

	out := make(chan T, b.buf)
	go b.pump(ctx, topic, ps, out)
	return out, nil
}

func (b *Bus[T]) pump(ctx context.Context, topic string, ps *redis.PubSub, out chan<- T) {
	defer b.wg.Done()
	defer close(out)
	defer func() { _ = ps.Close() }()

	log := logger.FromContext(ctx)
	msgs := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.done:
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			var v T
			if err := json.Unmarshal([]byte(msg.Payload), &v); err != nil {
				log.Warn("drop malformed event", slog.String("topic", topic), slog.Any("error", err))
				continue
			}
			select {
			case out <- v:
			default:
			}
		}
	}
}

// Close ends every subscription and waits for their channels to close.
func (b *Bus[T]) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.done)
	b.mu.Unlock()

	b.wg.Wait()
	return nil
}
