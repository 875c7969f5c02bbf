package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"parking-reservation/internal/domain/reservation"
	"parking-reservation/internal/domain/spot"
	reqdto "parking-reservation/internal/handler/dto/request"
	"parking-reservation/internal/infra"
	"parking-reservation/internal/pkg/clock"
	"parking-reservation/internal/pkg/errs"
	"parking-reservation/internal/pkg/qrtoken"
	"parking-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrSpotNotFound          = errs.New("parking spot not found")
	ErrSpotUnavailable       = errs.New("parking spot cannot be booked")
	ErrReservationConflict   = errs.New("reservation conflict")
	ErrInvalidWindow         = errs.New("invalid booking window")
	ErrPriceMismatch         = errs.New("price mismatch")
	ErrDuplicateRequest      = errs.New("idempotency key reused with a different request")
	ErrIdempotencyInProgress = errs.New("idempotency in progress")
	ErrReservationNotFound   = errs.New("reservation not found")
	ErrReservationAccess     = errs.New("reservation access denied")
	ErrInvalidTransition     = errs.New("invalid reservation state transition")
	ErrRedeemOutsideWindow   = errs.New("reservation cannot be redeemed now")
	ErrInvalidQRToken        = errs.New("invalid qr token")
)

const createReservationEndpoint = "POST /api/reservations"

type CreateReservationResult struct {
	Reservation *reservation.Reservation
	IsReplayed  bool
}

type ReservationCommands interface {
	// Create books a spot. A non-nil idempotencyKey makes retries replay the first result.
	Create(ctx context.Context, req reqdto.CreateReservationRequest, actor shared.Actor, idempotencyKey *uuid.UUID) (*CreateReservationResult, error)
	Cancel(ctx context.Context, id uuid.UUID, actor shared.Actor) (*reservation.Reservation, error)
	CheckOut(ctx context.Context, id uuid.UUID, actor shared.Actor) (*reservation.Reservation, error)
	Redeem(ctx context.Context, req reqdto.RedeemRequest, actor shared.Actor) (*reservation.Reservation, error)
}

type ReservationSettings struct {
	RedeemEarly    time.Duration
	IdempotencyTTL time.Duration
}

type reservationCommandsImpl struct {
	uow      shared.UnitOfWork
	policy   reservation.WindowPolicy
	pricing  reservation.PriceCalculator
	settings ReservationSettings
	clock    clock.Clock
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	policy reservation.WindowPolicy,
	pricing reservation.PriceCalculator,
	settings ReservationSettings,
	clock clock.Clock,
) ReservationCommands {
	return &reservationCommandsImpl{
		uow:      uow,
		policy:   policy,
		pricing:  pricing,
		settings: settings,
		clock:    clock,
	}
}

func (r *reservationCommandsImpl) Create(
	ctx context.Context,
	req reqdto.CreateReservationRequest,
	actor shared.Actor,
	idempotencyKey *uuid.UUID,
) (*CreateReservationResult, error) {
	now := r.clock.Now()
	window, err := r.policy.Validate(req.StartTime, req.EndTime, now)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidWindow)
	}

	requestHash := calculateRequestHash(req)

	var result *CreateReservationResult
	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		result = nil

		if idempotencyKey != nil {
			replayed, err := r.claimIdempotencyKey(ctx, tx, *idempotencyKey, actor.UserID, requestHash, now)
			if err != nil {
				return err
			}
			if replayed != nil {
				result = &CreateReservationResult{Reservation: replayed, IsReplayed: true}
				return nil
			}
		}

		res, err := r.book(ctx, tx, req, window, actor.UserID, now)
		if err != nil {
			return err
		}

		if idempotencyKey != nil {
			if err := tx.Idempotency().MarkCompleted(ctx, *idempotencyKey, actor.UserID, calculateIDHash(res.ID()), res.ID()); err != nil {
				return err
			}
		}

		result = &CreateReservationResult{Reservation: res}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// claimIdempotencyKey returns the stored reservation when the key was already completed.
func (r *reservationCommandsImpl) claimIdempotencyKey(
	ctx context.Context,
	tx shared.Tx,
	key, userID uuid.UUID,
	requestHash string,
	now time.Time,
) (*reservation.Reservation, error) {
	inserted, err := tx.Idempotency().TryInsert(ctx, key, userID, createReservationEndpoint, requestHash, now.Add(r.settings.IdempotencyTTL))
	if err != nil {
		return nil, err
	}
	if inserted {
		return nil, nil
	}

	existing, err := tx.Idempotency().Get(ctx, key, userID)
	if err != nil {
		return nil, err
	}

	if existing.RequestHash != requestHash {
		return nil, ErrDuplicateRequest
	}

	switch existing.Status {
	case shared.IdempotencyCompleted:
		if existing.ResultReservationID == nil {
			return nil, errs.New("completed request missing result reservation ID")
		}
		return tx.Reservations().FindByID(ctx, *existing.ResultReservationID)
	case shared.IdempotencyProcessing:
		return nil, ErrIdempotencyInProgress
	default:
		return nil, errs.Newf("invalid idempotency key status: %s", existing.Status)
	}
}

// book is the atomic check-and-insert: the spot row lock serializes bookings per spot.
func (r *reservationCommandsImpl) book(
	ctx context.Context,
	tx shared.Tx,
	req reqdto.CreateReservationRequest,
	window reservation.TimeWindow,
	userID uuid.UUID,
	now time.Time,
) (*reservation.Reservation, error) {
	target, err := tx.Spots().FindByIDForUpdate(ctx, req.ParkingSpotID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrSpotNotFound
		}
		return nil, err
	}

	if !target.InService() {
		return nil, errs.Mark(spot.ErrSpotUnavailable, ErrSpotUnavailable)
	}

	existing, err := tx.Reservations().FindActiveOverlapping(ctx, target.ID(), window)
	if err != nil {
		return nil, err
	}
	if conflict, found := reservation.FindConflict(window, existing, nil); found {
		slog.Info("reservation conflict detected",
			"spot_id", target.ID(),
			"conflicting_reservation_id", conflict.ID,
		)
		return nil, errs.Mark(reservation.ErrOverlap, ErrReservationConflict)
	}

	if err := target.EnsureBookable(); err != nil {
		return nil, errs.Mark(err, ErrSpotUnavailable)
	}

	rate, err := reservation.NewMoney(target.HourlyRateCents())
	if err != nil {
		return nil, err
	}
	quote := r.pricing.Quote(rate, window)
	if err := reservation.CheckQuotedPrice(quote, req.PriceCents()); err != nil {
		return nil, errs.Mark(err, ErrPriceMismatch)
	}

	token, err := qrtoken.New()
	if err != nil {
		return nil, errs.Wrap(err, "failed to mint qr token")
	}

	res := reservation.NewReservation(userID, target.ID(), window, quote, req.Method(), req.PaymentRef(), token)
	if err := tx.Reservations().Create(ctx, res); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, errs.Mark(reservation.ErrOverlap, ErrReservationConflict)
		}
		return nil, err
	}

	target.MarkOccupied()
	if err := tx.Spots().Update(ctx, target); err != nil {
		return nil, err
	}

	if err := shared.Enqueue(ctx, tx, shared.EventKindReservation, shared.TopicReservationCreated, shared.NewReservationEvent(res, now), now); err != nil {
		return nil, err
	}

	return res, nil
}

func (r *reservationCommandsImpl) Cancel(ctx context.Context, id uuid.UUID, actor shared.Actor) (*reservation.Reservation, error) {
	return r.transition(ctx, id, shared.TopicReservationCancelled, func(res *reservation.Reservation, now time.Time) error {
		switch {
		case actor.IsAdmin():
			return res.Cancel()
		case res.IsOwnedBy(actor.UserID):
			return res.CancelByOwner(now)
		default:
			return ErrReservationAccess
		}
	})
}

func (r *reservationCommandsImpl) CheckOut(ctx context.Context, id uuid.UUID, actor shared.Actor) (*reservation.Reservation, error) {
	return r.transition(ctx, id, shared.TopicReservationCompleted, func(res *reservation.Reservation, now time.Time) error {
		if !res.IsOwnedBy(actor.UserID) && !actor.IsAdmin() {
			return ErrReservationAccess
		}
		return res.CheckOut(now)
	})
}

// transition applies change under the reservation row lock, then frees the spot and emits topic.
func (r *reservationCommandsImpl) transition(
	ctx context.Context,
	id uuid.UUID,
	topic string,
	change func(res *reservation.Reservation, now time.Time) error,
) (*reservation.Reservation, error) {
	now := r.clock.Now()

	var updated *reservation.Reservation
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Reservations().FindByIDForUpdate(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return err
		}

		if err := change(res, now); err != nil {
			return markTransitionErr(err)
		}

		if err := tx.Reservations().UpdateState(ctx, res); err != nil {
			return err
		}

		spotID := res.SpotID()
		if _, err := tx.Spots().RefreshAvailability(ctx, &spotID, now); err != nil {
			return err
		}

		if err := shared.Enqueue(ctx, tx, shared.EventKindReservation, topic, shared.NewReservationEvent(res, now), now); err != nil {
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

func (r *reservationCommandsImpl) Redeem(ctx context.Context, req reqdto.RedeemRequest, actor shared.Actor) (*reservation.Reservation, error) {
	if !actor.IsStaff() {
		return nil, ErrReservationAccess
	}
	if err := qrtoken.Validate(req.QRToken); err != nil {
		return nil, errs.Mark(err, ErrInvalidQRToken)
	}

	now := r.clock.Now()

	var redeemed *reservation.Reservation
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Reservations().FindByQRTokenForUpdate(ctx, req.QRToken)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return err
		}

		if err := res.Redeem(now, r.settings.RedeemEarly); err != nil {
			return markTransitionErr(err)
		}

		if err := tx.Reservations().UpdateState(ctx, res); err != nil {
			return err
		}

		redeemed = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	return redeemed, nil
}

func markTransitionErr(err error) error {
	switch {
	case errs.Is(err, ErrReservationAccess):
		return err
	case errs.Is(err, reservation.ErrOutsideRedeemTime):
		return errs.Mark(err, ErrRedeemOutsideWindow)
	default:
		return errs.Mark(err, ErrInvalidTransition)
	}
}

func calculateRequestHash(req reqdto.CreateReservationRequest) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func calculateIDHash(id uuid.UUID) string {
	hash := sha256.Sum256([]byte(id.String()))
	return hex.EncodeToString(hash[:])
}
