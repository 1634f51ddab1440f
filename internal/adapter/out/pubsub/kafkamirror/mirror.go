// Package kafkamirror copies bus events to a kafka topic for consumers
// outside the GraphQL server.
package kafkamirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"postgraph/internal/adapter/out/pubsub"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"
)

type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Envelope[T any] struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    T         `json:"payload"`
}

const (
	defaultQueueSize = 256
	writeTimeout     = 5 * time.Second
)

// Mirror delivers to the wrapped bus first and queues the kafka copy for a
// background writer. A full queue or a failed write is logged and never
// fails the publish.
type Mirror[T any] struct {
	pubsub.Bus[T]

	w         Writer
	topic     string
	cb        *gobreaker.CircuitBreaker
	log       *slog.Logger
	keyOf     func(T) string
	now       func() time.Time
	queueSize int

	mu     sync.RWMutex
	closed bool
	queue  chan kafka.Message
	done   chan struct{}
}

var _ pubsub.Bus[int] = (*Mirror[int])(nil)

type Option[T any] func(*Mirror[T])

// WithKey sets the kafka message key, which decides the partition.
func WithKey[T any](fn func(T) string) Option[T] {
	return func(m *Mirror[T]) { m.keyOf = fn }
}

// WithQueueSize bounds how many events wait for the kafka writer.
func WithQueueSize[T any](n int) Option[T] {
	return func(m *Mirror[T]) {
		if n > 0 {
			m.queueSize = n
		}
	}
}

func New[T any](bus pubsub.Bus[T], w Writer, topic string, log *slog.Logger, opts ...Option[T]) *Mirror[T] {
	m := &Mirror[T]{
		Bus:       bus,
		w:         w,
		topic:     topic,
		log:       log,
		now:       time.Now,
		queueSize: defaultQueueSize,
		done:      make(chan struct{}),
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "kafka:" + topic,
			MaxRequests: 1,
			Interval:    5 * time.Second,
			Timeout:     3 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn("circuit breaker state changed",
					slog.String("breaker", name), slog.String("from", from.String()), slog.String("to", to.String()))
			},
		}),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.queue = make(chan kafka.Message, m.queueSize)
	go m.run()
	return m
}

// NewWriter builds a writer for topic. Messages are partitioned by key hash.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
	}
}

func (m *Mirror[T]) Publish(ctx context.Context, topic string, v T) error {
	if err := m.Bus.Publish(ctx, topic, v); err != nil {
		return err
	}

	msg, err := m.message(topic, v)
	if err != nil {
		m.log.Warn("mirror event to kafka", slog.String("type", topic), slog.Any("error", err))
		return nil
	}
	if !m.enqueue(msg) {
		m.log.Warn("kafka mirror queue full, event dropped", slog.String("type", topic))
	}
	return nil
}

func (m *Mirror[T]) enqueue(msg kafka.Message) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return false
	}
	select {
	case m.queue <- msg:
		return true
	default:
		return false
	}
}

// run writes queued messages until Close drains the queue.
func (m *Mirror[T]) run() {
	defer close(m.done)
	for msg := range m.queue {
		if err := m.write(msg); err != nil {
			m.log.Warn("mirror event to kafka", slog.String("topic", m.topic), slog.Any("error", err))
		}
	}
}

func (m *Mirror[T]) write(msg kafka.Message) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	_, err := m.cb.Execute(func() (interface{}, error) {
		return nil, m.w.WriteMessages(ctx, msg)
	})
	return err
}

func (m *Mirror[T]) message(topic string, v T) (kafka.Message, error) {
	env := Envelope[T]{
		ID:         uuid.New(),
		Type:       topic,
		OccurredAt: m.now().UTC(),
		Payload:    v,
	}
	value, err := json.Marshal(env)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal envelope: %w", err)
	}

	msg := kafka.Message{
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-id", Value: []byte(env.ID.String())},
			{Key: "event-type", Value: []byte(topic)},
		},
	}
	if m.keyOf != nil {
		msg.Key = []byte(m.keyOf(v))
	}
	return msg, nil
}

// Close stops accepting events, waits for queued ones to be written and
// closes the writer and the wrapped bus.
func (m *Mirror[T]) Close() error {
	m.mu.Lock()
	if !m.closed {
		m.closed = true
		close(m.queue)
	}
	m.mu.Unlock()

	<-m.done
	return errors.Join(m.Bus.Close(), m.w.Close())
}
