package commands

import (
	"context"
	"time"

	"parking-reservation/internal/domain/reservation"
	reqdto "parking-reservation/internal/handler/dto/request"
	"parking-reservation/internal/infra"
	"parking-reservation/internal/pkg/clock"
	"parking-reservation/internal/pkg/errs"
	"parking-reservation/internal/usecase/shared"
)

type PaymentCommands interface {
	// HandleWebhook applies a provider callback; redelivery of the same outcome is a no-op.
	HandleWebhook(ctx context.Context, req reqdto.PaymentWebhookRequest) (*reservation.Reservation, error)
}

type paymentCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewPaymentCommands(uow shared.UnitOfWork, clock clock.Clock) PaymentCommands {
	return &paymentCommandsImpl{
		uow:   uow,
		clock: clock,
	}
}

func (p *paymentCommandsImpl) HandleWebhook(ctx context.Context, req reqdto.PaymentWebhookRequest) (*reservation.Reservation, error) {
	now := p.clock.Now()

	var updated *reservation.Reservation
	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Reservations().FindByIDForUpdate(ctx, req.ReservationID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return err
		}

		switch req.Status {
		case reqdto.PaymentSucceeded:
			err = p.confirm(ctx, tx, res, req.PaymentID, now)
		default:
			err = p.fail(ctx, tx, res, now)
		}
		if err != nil {
			return err
		}

		updated = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (p *paymentCommandsImpl) confirm(ctx context.Context, tx shared.Tx, res *reservation.Reservation, paymentID string, now time.Time) error {
	changed, err := res.Confirm(paymentID)
	if err != nil {
		return markTransitionErr(err)
	}
	if !changed {
		return nil
	}

	if err := tx.Reservations().UpdateState(ctx, res); err != nil {
		return err
	}
	return shared.Enqueue(ctx, tx, shared.EventKindReservation, shared.TopicReservationConfirmed, shared.NewReservationEvent(res, now), now)
}

func (p *paymentCommandsImpl) fail(ctx context.Context, tx shared.Tx, res *reservation.Reservation, now time.Time) error {
	switch res.Status() {
	case reservation.StatusCancelled:
		return nil
	case reservation.StatusPending:
	default:
		// a settled booking is never cancelled by a late failure callback
		return errs.Mark(reservation.ErrInvalidTransition, ErrInvalidTransition)
	}

	if err := res.Cancel(); err != nil {
		return markTransitionErr(err)
	}
	if err := tx.Reservations().UpdateState(ctx, res); err != nil {
		return err
	}

	spotID := res.SpotID()
	if _, err := tx.Spots().RefreshAvailability(ctx, &spotID, now); err != nil {
		return err
	}

	return shared.Enqueue(ctx, tx, shared.EventKindReservation, shared.TopicReservationCancelled, shared.NewReservationEvent(res, now), now)
}
