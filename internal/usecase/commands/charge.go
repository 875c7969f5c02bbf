package commands

import (
	"context"
	"errors"
	"log/slog"

	"parking-reservation/internal/domain/charge"
	"parking-reservation/internal/domain/overstay"
	reqdto "parking-reservation/internal/handler/dto/request"
	"parking-reservation/internal/infra"
	"parking-reservation/internal/pkg/clock"
	"parking-reservation/internal/pkg/errs"
	"parking-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrNotOverstayed = errs.New("no overstay to charge")
	ErrNotBillable   = errs.New("reservation cannot be charged in its current status")
)

// errChargeRaced signals that another transaction recorded the paid charge first.
var errChargeRaced = errors.New("paid charge already recorded")

type ChargeResult struct {
	Charge     *charge.AdditionalCharge
	IsReplayed bool
}

type ChargeCommands interface {
	// SettleOverstay records the paid overstay charge at most once per reservation.
	SettleOverstay(ctx context.Context, reservationID uuid.UUID, req reqdto.AdditionalChargeRequest, actor shared.Actor) (*ChargeResult, error)
}

type chargeCommandsImpl struct {
	uow       shared.UnitOfWork
	evaluator *overstay.Evaluator
	clock     clock.Clock
}

func NewChargeCommands(uow shared.UnitOfWork, evaluator *overstay.Evaluator, clock clock.Clock) ChargeCommands {
	return &chargeCommandsImpl{
		uow:       uow,
		evaluator: evaluator,
		clock:     clock,
	}
}

func (c *chargeCommandsImpl) SettleOverstay(
	ctx context.Context,
	reservationID uuid.UUID,
	req reqdto.AdditionalChargeRequest,
	actor shared.Actor,
) (*ChargeResult, error) {
	now := c.clock.Now()

	var result *ChargeResult
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		result = nil

		res, err := tx.Reservations().FindByIDForUpdate(ctx, reservationID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return err
		}
		if !actor.CanAccess(res.UserID()) {
			return ErrReservationAccess
		}

		existing, err := tx.Charges().FindPaidByReservation(ctx, reservationID)
		if err == nil {
			result = &ChargeResult{Charge: existing, IsReplayed: true}
			return nil
		}
		if !infra.IsKind(err, infra.KindNotFound) {
			return err
		}

		if !res.IsBillable() {
			return ErrNotBillable
		}

		eval := c.evaluator.Evaluate(res.Window().End(), res.OverstayClock(now), false)
		paid, err := charge.NewPaidOverstayCharge(reservationID, eval)
		if err != nil {
			if errors.Is(err, charge.ErrOverstayOutOfRange) {
				return errs.Mark(err, ErrNotBillable)
			}
			return errs.Mark(err, ErrNotOverstayed)
		}

		if req.AmountCents() != paid.AmountCents() {
			slog.Warn("client overstay amount differs from server evaluation",
				"reservation_id", reservationID,
				"client_amount_cents", req.AmountCents(),
				"client_exceeded_minutes", *req.ExceededMinutes,
				"server_amount_cents", paid.AmountCents(),
				"server_exceeded_minutes", paid.ExceededMinutes(),
			)
		}

		saved, err := tx.Charges().Create(ctx, paid)
		if err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errChargeRaced
			}
			return err
		}

		if err := shared.Enqueue(ctx, tx, shared.EventKindCharge, shared.TopicChargeSettled, shared.NewChargeEvent(saved, now), now); err != nil {
			return err
		}

		result = &ChargeResult{Charge: saved}
		return nil
	})
	if errors.Is(err, errChargeRaced) {
		return c.replayPaid(ctx, reservationID)
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}

// replayPaid runs in a fresh transaction because the unique violation aborted the first one.
func (c *chargeCommandsImpl) replayPaid(ctx context.Context, reservationID uuid.UUID) (*ChargeResult, error) {
	var existing *charge.AdditionalCharge
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		found, err := tx.Charges().FindPaidByReservation(ctx, reservationID)
		if err != nil {
			return err
		}
		existing = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ChargeResult{Charge: existing, IsReplayed: true}, nil
}
