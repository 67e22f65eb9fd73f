package service

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// MessageIterator is the consuming side of a Kafka topic as seen by the
// Iterator. Implementations own the consumer lifecycle.
type MessageIterator interface {
	// Messages is closed when the consumer stops.
	Messages() <-chan kafka.Message

	// CommitOffset acknowledges a message once it has been handed off.
	CommitOffset(ctx context.Context, msg kafka.Message) error
}

// DecodeFunc turns a raw message into a work item.
type DecodeFunc[T any] func(msg kafka.Message) (T, error)

// Fetched pairs a decoded item with the message it came from.
type Fetched[T any] struct {
	Data    T
	Message kafka.Message
}
