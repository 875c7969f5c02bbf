package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"parking-reservation/internal/pkg/config"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
)

// KafkaPublisher writes outbox events synchronously so the relay learns the outcome.
type KafkaPublisher struct {
	writer      messageWriter
	topicPrefix string
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		Compression:            compress.Snappy,
		BatchTimeout:           cfg.BatchTimeout,
		WriteTimeout:           cfg.WriteTimeout,
		AllowAutoTopicCreation: true,
		Logger:                 kafka.LoggerFunc(func(string, ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			slog.Error("kafka writer error", "detail", fmt.Sprintf(msg, args...))
		}),
	}
	return newKafkaPublisher(writer, cfg.TopicPrefix)
}

func newKafkaPublisher(writer messageWriter, topicPrefix string) *KafkaPublisher {
	return &KafkaPublisher{
		writer:      writer,
		topicPrefix: topicPrefix,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic string, key, payload []byte) error {
	msg := kafka.Message{
		Topic: p.TopicName(topic),
		Key:   key,
		Value: payload,
		Time:  time.Now().UTC(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", msg.Topic, err)
	}
	return nil
}

// TopicName prefixes an event suffix such as "reservation.created".
func (p *KafkaPublisher) TopicName(suffix string) string {
	if p.topicPrefix == "" {
		return suffix
	}
	return p.topicPrefix + "." + suffix
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
