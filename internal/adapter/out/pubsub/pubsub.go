// Package pubsub defines the topic based event bus used for subscriptions.
package pubsub

import (
	"context"
	"errors"
)

var ErrClosed = errors.New("bus closed")

// Bus fans values published on a topic out to every current subscriber of
// that topic. Delivery never blocks the publisher: a subscriber that falls
// behind misses values. A subscription channel is closed once its context is
// done or the bus is closed.
type Bus[T any] interface {
	Publish(ctx context.Context, topic string, v T) error
	Subscribe(ctx context.Context, topic string) (<-chan T, error)
	Close() error
}
