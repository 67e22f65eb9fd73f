// Package service turns a stream of Kafka messages into typed work items.
package service

import (
	"context"
	"encoding/json"
	"fmt"

	"bizfinder/internal/models"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Iterator reads messages from a MessageIterator, decodes each one and
// yields the result on a channel. Messages that fail to decode are logged,
// committed and skipped so a poison message cannot block the partition.
// Decoded messages are committed by the consumer of the channel, through
// Commit, once their work is done.
type Iterator[T any] struct {
	msgIterator MessageIterator
	decode      DecodeFunc[T]
	logger      *zap.Logger
}

func NewIterator[T any](iterator MessageIterator, decode DecodeFunc[T], logger *zap.Logger) *Iterator[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Iterator[T]{
		msgIterator: iterator,
		decode:      decode,
		logger:      logger,
	}
}

// Objects starts a goroutine that emits every decodable message. The
// returned channel is closed when the underlying message channel is closed
// or ctx is done.
func (it *Iterator[T]) Objects(ctx context.Context) <-chan *Fetched[T] {
	out := make(chan *Fetched[T])
	go func() {
		defer close(out)

		for msg := range it.msgIterator.Messages() {
			data, err := it.decode(msg)
			if err != nil {
				it.logger.Warn("skipping undecodable message",
					zap.Int("partition", msg.Partition),
					zap.Int64("offset", msg.Offset),
					zap.Error(err),
				)
				it.commit(ctx, msg)
				continue
			}

			select {
			case out <- &Fetched[T]{Data: data, Message: msg}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Commit acknowledges a fetched item. Until then a restart redelivers it.
func (it *Iterator[T]) Commit(ctx context.Context, f *Fetched[T]) error {
	return it.msgIterator.CommitOffset(ctx, f.Message)
}

func (it *Iterator[T]) commit(ctx context.Context, msg kafka.Message) {
	if err := it.msgIterator.CommitOffset(ctx, msg); err != nil {
		it.logger.Error("failed to commit offset",
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
	}
}

// DecodeSearchRequest reads a JSON SearchRequest. Requests without an id get
// a fresh one; the message key is used when present.
func DecodeSearchRequest(msg kafka.Message) (*models.SearchRequest, error) {
	var req models.SearchRequest
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		return nil, fmt.Errorf("decoding search request: %w", err)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid search request: %w", err)
	}
	if req.ID == "" {
		req.ID = string(msg.Key)
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	return &req, nil
}
