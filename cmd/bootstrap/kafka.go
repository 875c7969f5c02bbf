package bootstrap

import (
	"context"
	"log/slog"

	"parking-reservation/internal/infra/messaging"
	"parking-reservation/internal/pkg/config"

	"go.uber.org/fx"
)

var KafkaModule = fx.Module("kafka",
	fx.Provide(
		NewKafkaPublisher,
	),
)

// NewKafkaPublisher returns nil when KAFKA_BROKERS is unset; events then stay queued.
func NewKafkaPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) *messaging.KafkaPublisher {
	if !cfg.Kafka.Enabled() {
		logger.Info("kafka disabled; outbox events stay queued")
		return nil
	}

	publisher := messaging.NewKafkaPublisher(cfg.Kafka)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return publisher.Close()
		},
	})

	logger.Info("kafka publisher ready", "brokers", cfg.Kafka.Brokers, "topic_prefix", cfg.Kafka.TopicPrefix)
	return publisher
}
