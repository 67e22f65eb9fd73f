package kafkaclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaWriter is the part of *kafka.Writer the producer uses.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes JSON documents to one topic.
type Producer struct {
	writer KafkaWriter
	topic  string
	logger *zap.Logger
}

func NewProducer(broker, topic string, logger *zap.Logger) *Producer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return newProducer(w, topic, logger)
}

func newProducer(w KafkaWriter, topic string, logger *zap.Logger) *Producer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Producer{writer: w, topic: topic, logger: logger}
}

// PublishJSON encodes v and writes it under key. Messages with the same key
// land on the same partition.
func (p *Producer) PublishJSON(ctx context.Context, key string, v any) error {
	value, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value}); err != nil {
		return fmt.Errorf("publishing to %s: %w", p.topic, err)
	}
	p.logger.Debug("published message", zap.String("topic", p.topic), zap.String("key", key))
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
