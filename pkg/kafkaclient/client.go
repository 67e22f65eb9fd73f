package kafkaclient

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaReader is the part of *kafka.Reader the consumer uses.
type KafkaReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConsumer pumps messages from a reader into a channel until it is
// stopped or its context is done. Offsets are committed explicitly.
type KafkaConsumer struct {
	reader      KafkaReader
	logger      *zap.Logger
	doneChan    chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
	messageChan chan kafka.Message
	retryDelay  time.Duration
}

// NewKafkaConsumer creates a consumer for topic in the given group.
func NewKafkaConsumer(topic, groupID, broker string, logger *zap.Logger) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{broker},
		Topic:   topic,
		GroupID: groupID,
		// Offsets are committed by CommitOffset only.
		CommitInterval: 0,
		MinBytes:       1,
		MaxBytes:       10e6,
	})
	return newConsumer(reader, logger)
}

func newConsumer(reader KafkaReader, logger *zap.Logger) *KafkaConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaConsumer{
		reader:      reader,
		logger:      logger,
		doneChan:    make(chan struct{}),
		messageChan: make(chan kafka.Message),
		retryDelay:  time.Second,
	}
}

// Messages is closed once the consume loop exits.
func (kc *KafkaConsumer) Messages() <-chan kafka.Message {
	return kc.messageChan
}

func (kc *KafkaConsumer) CommitOffset(ctx context.Context, msg kafka.Message) error {
	kc.logger.Debug("committing offset",
		zap.String("topic", msg.Topic),
		zap.Int("partition", msg.Partition),
		zap.Int64("offset", msg.Offset),
	)
	return kc.reader.CommitMessages(ctx, msg)
}

// StartConsuming runs the read loop in its own goroutine.
func (kc *KafkaConsumer) StartConsuming(ctx context.Context) {
	kc.wg.Add(1)
	go func() {
		defer kc.wg.Done()
		defer close(kc.messageChan)

		kc.logger.Info("starting kafka consumer loop")
		for {
			select {
			case <-ctx.Done():
				kc.logger.Info("context canceled, stopping consumer loop")
				return
			case <-kc.doneChan:
				kc.logger.Info("shutdown signal received, stopping consumer loop")
				return
			default:
			}

			msg, err := kc.reader.ReadMessage(ctx)
			if err != nil {
				if errors.Is(err, io.EOF) || ctx.Err() != nil {
					return
				}
				kc.logger.Warn("error reading message", zap.Error(err))
				// Back off so a broken broker does not spin the loop.
				select {
				case <-time.After(kc.retryDelay):
				case <-ctx.Done():
				case <-kc.doneChan:
				}
				continue
			}

			select {
			case kc.messageChan <- msg:
				kc.logger.Debug("message received",
					zap.String("topic", msg.Topic),
					zap.Int("partition", msg.Partition),
					zap.Int64("offset", msg.Offset),
				)
			case <-ctx.Done():
				return
			case <-kc.doneChan:
				return
			}
		}
	}()
}

// Stop ends the consume loop, waits for it and closes the reader. It is safe
// to call more than once.
func (kc *KafkaConsumer) Stop() {
	kc.stopOnce.Do(func() {
		close(kc.doneChan)
		// Closing the reader unblocks a pending ReadMessage.
		if err := kc.reader.Close(); err != nil {
			kc.logger.Warn("failed to close kafka reader", zap.Error(err))
		}
		kc.wg.Wait()
		kc.logger.Info("kafka consumer stopped")
	})
}
