package shared

import (
	"context"
	"time"

	"parking-reservation/internal/domain/charge"
	"parking-reservation/internal/domain/location"
	"parking-reservation/internal/domain/reservation"
	"parking-reservation/internal/domain/spot"
	"parking-reservation/internal/domain/user"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within runs fn in one ReadCommitted transaction, retrying serialization failures and deadlocks.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx exposes repositories bound to the running transaction.
type Tx interface {
	Spots() SpotRepository
	Locations() LocationRepository
	Reservations() ReservationRepository
	Charges() ChargeRepository
	Idempotency() IdempotencyRepository
	Notifications() NotificationRepository
	Users() UserRepository
}

type SpotRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*spot.Spot, error)
	// FindByIDForUpdate locks the spot row until the transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*spot.Spot, error)
	Create(ctx context.Context, s *spot.Spot) error
	Update(ctx context.Context, s *spot.Spot) error
	// RefreshAvailability recomputes the cached flag for one spot, or all when spotID is nil.
	RefreshAvailability(ctx context.Context, spotID *uuid.UUID, now time.Time) (int64, error)
}

type LocationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*location.Location, error)
	Create(ctx context.Context, l *location.Location) error
}

type ReservationRepository interface {
	FindActiveOverlapping(ctx context.Context, spotID uuid.UUID, window reservation.TimeWindow) ([]reservation.Booking, error)
	Create(ctx context.Context, r *reservation.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	FindByQRTokenForUpdate(ctx context.Context, token string) (*reservation.Reservation, error)
	UpdateState(ctx context.Context, r *reservation.Reservation) error
	CancelExpiredPending(ctx context.Context, now time.Time) ([]ExpiredReservation, error)
	CompleteExpiredConfirmed(ctx context.Context, now time.Time) ([]ExpiredReservation, error)
}

type ChargeRepository interface {
	FindPaidByReservation(ctx context.Context, reservationID uuid.UUID) (*charge.AdditionalCharge, error)
	Create(ctx context.Context, c *charge.AdditionalCharge) (*charge.AdditionalCharge, error)
}

type IdempotencyRepository interface {
	// TryInsert reports false when the key already exists for the user.
	TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	Get(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
	MarkCompleted(ctx context.Context, key, userID uuid.UUID, responseHash string, reservationID uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type NotificationRepository interface {
	Enqueue(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
	// ClaimDue locks up to limit queued jobs; concurrent relays skip them.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]OutboxJob, error)
	UpdateStatus(ctx context.Context, job OutboxJob) error
	// PurgeBefore deletes sent and failed jobs whose run_at is before cutoff,
	// and queued ones too when includeQueued is set.
	PurgeBefore(ctx context.Context, cutoff time.Time, includeQueued bool) (int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	UpdateLastLogin(ctx context.Context, userID uuid.UUID) error
}
