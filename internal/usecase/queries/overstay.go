package queries

import (
	"context"

	"parking-reservation/internal/domain/overstay"
	"parking-reservation/internal/infra"
	"parking-reservation/internal/pkg/clock"
	"parking-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

type ChargeReadStore interface {
	// FindPaidByReservation reports KindNotFound when no paid charge exists.
	FindPaidByReservation(ctx context.Context, reservationID uuid.UUID) (*ChargeView, error)
}

type OverstayQueries interface {
	Evaluate(ctx context.Context, reservationID uuid.UUID, actor shared.Actor) (*OverstayView, error)
}

type overstayQueriesImpl struct {
	reservations ReservationReadStore
	charges      ChargeReadStore
	evaluator    *overstay.Evaluator
	clock        clock.Clock
}

func NewOverstayQueries(
	reservations ReservationReadStore,
	charges ChargeReadStore,
	evaluator *overstay.Evaluator,
	clock clock.Clock,
) OverstayQueries {
	return &overstayQueriesImpl{
		reservations: reservations,
		charges:      charges,
		evaluator:    evaluator,
		clock:        clock,
	}
}

func (q *overstayQueriesImpl) Evaluate(ctx context.Context, reservationID uuid.UUID, actor shared.Actor) (*OverstayView, error) {
	view, err := q.reservations.FindByID(ctx, reservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if !actor.CanAccess(view.UserID) {
		return nil, ErrReservationAccess
	}

	paid, err := q.charges.FindPaidByReservation(ctx, reservationID)
	if err != nil && !infra.IsKind(err, infra.KindNotFound) {
		return nil, err
	}

	// the clock stops at check-out
	at := q.clock.Now()
	if view.CheckedOutAt != nil {
		at = *view.CheckedOutAt
	}

	eval := q.evaluator.Evaluate(view.EndTime, at, paid != nil)
	return &OverstayView{
		ReservationID:   view.ID,
		EndTime:         view.EndTime,
		State:           eval.State.String(),
		ExceededMinutes: eval.ExceededMinutes,
		AmountCents:     eval.AmountCents,
		EvaluatedAt:     eval.EvaluatedAt,
		Charge:          paid,
	}, nil
}
