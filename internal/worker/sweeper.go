package worker

import (
	"context"
	"log/slog"
	"time"

	"parking-reservation/internal/usecase/commands"
)

type Sweeper struct {
	*Loop
	cmds commands.SweepCommands
}

func NewSweeper(cmds commands.SweepCommands, interval time.Duration, logger *slog.Logger) *Sweeper {
	s := &Sweeper{cmds: cmds}
	s.Loop = NewLoop("expiry-sweeper", interval, logger, s.RunOnce)
	return s
}

func (s *Sweeper) RunOnce(ctx context.Context) {
	result, err := s.cmds.Sweep(ctx)
	if err != nil {
		s.logger.Error("expiry sweep failed", "error", err.Error())
		return
	}

	if result.Cancelled+result.Completed == 0 && result.IdempotencyKeysPurged == 0 && result.JobsPurged == 0 {
		s.logger.Debug("expiry sweep found nothing to do", "spots_refreshed", result.SpotsRefreshed)
		return
	}
	s.logger.Info("expiry sweep finished",
		"cancelled", result.Cancelled,
		"completed", result.Completed,
		"spots_refreshed", result.SpotsRefreshed,
		"idempotency_keys_purged", result.IdempotencyKeysPurged,
		"jobs_purged", result.JobsPurged,
	)
}
