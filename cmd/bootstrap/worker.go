package bootstrap

import (
	"context"
	"log/slog"

	"parking-reservation/internal/infra/messaging"
	"parking-reservation/internal/pkg/clock"
	"parking-reservation/internal/pkg/config"
	"parking-reservation/internal/usecase/commands"
	"parking-reservation/internal/usecase/shared"
	"parking-reservation/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Invoke(
		StartSweeper,
		StartOutboxRelay,
	),
)

func StartSweeper(lc fx.Lifecycle, cfg config.Config, cmds commands.SweepCommands, logger *slog.Logger) {
	sweeper := worker.NewSweeper(cmds, cfg.Sweep.Interval, logger)
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			sweeper.Start()
			return nil
		},
		OnStop: sweeper.Stop,
	})
}

func StartOutboxRelay(
	lc fx.Lifecycle,
	cfg config.Config,
	uow shared.UnitOfWork,
	publisher *messaging.KafkaPublisher,
	clk clock.Clock,
	logger *slog.Logger,
) {
	if publisher == nil {
		return
	}

	cmds := commands.NewOutboxCommands(uow, publisher, commands.OutboxSettings{
		BatchSize:   cfg.Sweep.OutboxBatch,
		MaxAttempts: cfg.Sweep.OutboxMaxTries,
	}, clk)
	relay := worker.NewOutboxRelay(cmds, cfg.Sweep.OutboxInterval, logger)
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			relay.Start()
			return nil
		},
		OnStop: relay.Stop,
	})
}
