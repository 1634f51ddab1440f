package kafkamirror

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"testing"
	"time"

	"postgraph/internal/adapter/out/pubsub/inmemory"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu     sync.Mutex
	err    error
	msgs   []kafka.Message
	calls  int
	closed bool

	// when set, every write signals entered and waits for release
	entered chan struct{}
	release chan struct{}
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.release != nil {
		w.entered <- struct{}{}
		<-w.release
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

type post struct {
	ID       int64
	AuthorID int64
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMirror_PublishWritesEnvelope(t *testing.T) {
	t.Parallel()

	bus := inmemory.New[post](1)
	w := &fakeWriter{}
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	m := New[post](bus, w, "posts", discard(),
		WithKey(func(p post) string { return strconv.FormatInt(p.AuthorID, 10) }))
	m.now = func() time.Time { return at }

	ctx := context.Background()
	local, err := m.Subscribe(ctx, "postCreated")
	require.NoError(t, err)

	require.NoError(t, m.Publish(ctx, "postCreated", post{ID: 1, AuthorID: 9}))
	require.Equal(t, post{ID: 1, AuthorID: 9}, <-local)

	// Close waits for the queued write
	require.NoError(t, m.Close())
	require.True(t, w.closed)

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	require.Equal(t, "9", string(msg.Key))

	var env Envelope[post]
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	require.Equal(t, "postCreated", env.Type)
	require.True(t, at.Equal(env.OccurredAt))
	require.Equal(t, post{ID: 1, AuthorID: 9}, env.Payload)
	require.NotEmpty(t, env.ID.String())
	require.Equal(t, env.ID.String(), string(msg.Headers[0].Value))
}

func TestMirror_KafkaFailureDoesNotFailPublish(t *testing.T) {
	t.Parallel()

	bus := inmemory.New[post](8)
	w := &fakeWriter{err: errors.New("broker down")}

	m := New[post](bus, w, "posts", discard())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, m.Publish(ctx, "postCreated", post{ID: int64(i)}))
	}
	require.NoError(t, m.Close())

	// the breaker opens after three failures and stops calling the writer
	require.Equal(t, 3, w.calls)
}

func TestMirror_SlowBrokerDoesNotBlockPublish(t *testing.T) {
	t.Parallel()

	bus := inmemory.New[post](8)
	w := &fakeWriter{entered: make(chan struct{}, 8), release: make(chan struct{})}

	m := New[post](bus, w, "posts", discard(), WithQueueSize[post](2))
	ctx := context.Background()

	require.NoError(t, m.Publish(ctx, "postCreated", post{ID: 1}))
	select {
	case <-w.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("writer was not called")
	}

	// the writer is stuck on post 1: two events fit the queue, two are dropped
	start := time.Now()
	for i := 2; i <= 5; i++ {
		require.NoError(t, m.Publish(ctx, "postCreated", post{ID: int64(i)}))
	}
	require.Less(t, time.Since(start), time.Second)

	close(w.release)
	require.NoError(t, m.Close())
	require.Equal(t, 3, w.calls)
}
