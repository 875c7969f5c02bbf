package worker

import (
	"context"
	"log/slog"
	"time"

	"parking-reservation/internal/usecase/commands"
)

// OutboxRelay drains queued notification jobs to the event broker.
type OutboxRelay struct {
	*Loop
	cmds commands.OutboxCommands
}

func NewOutboxRelay(cmds commands.OutboxCommands, interval time.Duration, logger *slog.Logger) *OutboxRelay {
	r := &OutboxRelay{cmds: cmds}
	r.Loop = NewLoop("outbox-relay", interval, logger, r.RunOnce)
	return r
}

func (r *OutboxRelay) RunOnce(ctx context.Context) {
	result, err := r.cmds.RelayDue(ctx)
	if err != nil {
		r.logger.Error("outbox relay failed", "error", err.Error())
		return
	}

	if result.Sent+result.Retried+result.Failed == 0 {
		return
	}
	level := slog.LevelInfo
	if result.Failed > 0 {
		level = slog.LevelWarn
	}
	r.logger.Log(ctx, level, "outbox relay batch",
		"sent", result.Sent,
		"retried", result.Retried,
		"failed", result.Failed,
	)
}
