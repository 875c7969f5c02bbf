package commands

import (
	"context"
	"log/slog"
	"time"

	"parking-reservation/internal/pkg/clock"
	"parking-reservation/internal/usecase/shared"
)

// EventPublisher delivers one outbox payload to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key, payload []byte) error
}

type OutboxSettings struct {
	BatchSize   int
	MaxAttempts int
}

type RelayResult struct {
	Sent    int
	Retried int
	Failed  int
}

type OutboxCommands interface {
	RelayDue(ctx context.Context) (*RelayResult, error)
}

type outboxCommandsImpl struct {
	uow       shared.UnitOfWork
	publisher EventPublisher
	settings  OutboxSettings
	clock     clock.Clock
}

func NewOutboxCommands(uow shared.UnitOfWork, publisher EventPublisher, settings OutboxSettings, clock clock.Clock) OutboxCommands {
	return &outboxCommandsImpl{
		uow:       uow,
		publisher: publisher,
		settings:  settings,
		clock:     clock,
	}
}

const (
	baseRetryDelay = 2 * time.Second
	maxRetryDelay  = 5 * time.Minute
)

func (o *outboxCommandsImpl) RelayDue(ctx context.Context) (*RelayResult, error) {
	now := o.clock.Now()

	var result *RelayResult
	err := o.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		result = &RelayResult{}

		jobs, err := tx.Notifications().ClaimDue(ctx, now, o.settings.BatchSize)
		if err != nil {
			return err
		}

		for _, job := range jobs {
			pubErr := o.publisher.Publish(ctx, job.Topic, shared.EventKey(job.Payload), job.Payload)
			o.applyOutcome(&job, pubErr, now)

			switch job.Status {
			case shared.OutboxSent:
				result.Sent++
			case shared.OutboxFailed:
				result.Failed++
				slog.Error("outbox job exhausted retries", "job_id", job.ID, "topic", job.Topic, "error", pubErr)
			default:
				result.Retried++
				slog.Warn("outbox publish failed, will retry", "job_id", job.ID, "topic", job.Topic, "attempts", job.Attempts, "error", pubErr)
			}

			if err := tx.Notifications().UpdateStatus(ctx, job); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (o *outboxCommandsImpl) applyOutcome(job *shared.OutboxJob, pubErr error, now time.Time) {
	if pubErr == nil {
		job.Status = shared.OutboxSent
		job.LastError = nil
		return
	}

	job.Attempts++
	msg := pubErr.Error()
	job.LastError = &msg

	if job.Attempts >= o.settings.MaxAttempts {
		job.Status = shared.OutboxFailed
		return
	}
	job.Status = shared.OutboxQueued
	job.RunAt = now.Add(retryDelay(job.Attempts))
}

func retryDelay(attempts int) time.Duration {
	delay := baseRetryDelay
	for i := 1; i < attempts; i++ {
		delay *= 2
		if delay >= maxRetryDelay {
			return maxRetryDelay
		}
	}
	return delay
}
