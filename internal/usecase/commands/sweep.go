package commands

import (
	"context"
	"time"

	"parking-reservation/internal/domain/reservation"
	"parking-reservation/internal/pkg/clock"
	"parking-reservation/internal/usecase/shared"
)

type SweepResult struct {
	Cancelled             int
	Completed             int
	SpotsRefreshed        int64
	IdempotencyKeysPurged int64
	JobsPurged            int64
}

// SweepSettings controls outbox housekeeping. A zero JobRetention keeps every
// job. PurgeQueued also drops undelivered jobs, for deployments with no relay.
type SweepSettings struct {
	JobRetention time.Duration
	PurgeQueued  bool
}

type SweepCommands interface {
	// Sweep expires overdue reservations and recomputes every spot's cached availability.
	Sweep(ctx context.Context) (*SweepResult, error)
}

type sweepCommandsImpl struct {
	uow      shared.UnitOfWork
	settings SweepSettings
	clock    clock.Clock
}

func NewSweepCommands(uow shared.UnitOfWork, settings SweepSettings, clock clock.Clock) SweepCommands {
	return &sweepCommandsImpl{
		uow:      uow,
		settings: settings,
		clock:    clock,
	}
}

func (s *sweepCommandsImpl) Sweep(ctx context.Context) (*SweepResult, error) {
	now := s.clock.Now()

	var result *SweepResult
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		cancelled, err := tx.Reservations().CancelExpiredPending(ctx, now)
		if err != nil {
			return err
		}
		completed, err := tx.Reservations().CompleteExpiredConfirmed(ctx, now)
		if err != nil {
			return err
		}

		refreshed, err := tx.Spots().RefreshAvailability(ctx, nil, now)
		if err != nil {
			return err
		}

		purged, err := tx.Idempotency().DeleteExpired(ctx, now)
		if err != nil {
			return err
		}

		if err := enqueueExpired(ctx, tx, cancelled, reservation.StatusCancelled, shared.TopicReservationCancelled, now); err != nil {
			return err
		}
		if err := enqueueExpired(ctx, tx, completed, reservation.StatusCompleted, shared.TopicReservationCompleted, now); err != nil {
			return err
		}

		var jobsPurged int64
		if s.settings.JobRetention > 0 {
			jobsPurged, err = tx.Notifications().PurgeBefore(ctx, now.Add(-s.settings.JobRetention), s.settings.PurgeQueued)
			if err != nil {
				return err
			}
		}

		result = &SweepResult{
			Cancelled:             len(cancelled),
			Completed:             len(completed),
			SpotsRefreshed:        refreshed,
			IdempotencyKeysPurged: purged,
			JobsPurged:            jobsPurged,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func enqueueExpired(
	ctx context.Context,
	tx shared.Tx,
	expired []shared.ExpiredReservation,
	status reservation.Status,
	topic string,
	now time.Time,
) error {
	for _, e := range expired {
		event := shared.ReservationEvent{
			ReservationID: e.ID,
			UserID:        e.UserID,
			SpotID:        e.SpotID,
			Status:        status.String(),
			OccurredAt:    now,
		}
		if err := shared.Enqueue(ctx, tx, shared.EventKindReservation, topic, event, now); err != nil {
			return err
		}
	}
	return nil
}
