package queries

import (
	"context"
	"time"

	"parking-reservation/internal/domain/reservation"
	"parking-reservation/internal/infra"
	"parking-reservation/internal/pkg/clock"
	"parking-reservation/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrSpotNotFound     = errs.New("spot view not found")
	ErrLocationNotFound = errs.New("location view not found")
	ErrInvalidWindow    = errs.New("invalid availability window")
)

type SpotReadStore interface {
	ListLocations(ctx context.Context) ([]*LocationView, error)
	FindLocationByID(ctx context.Context, id uuid.UUID) (*LocationView, error)
	ListSpotsByLocation(ctx context.Context, locationID uuid.UUID) ([]*SpotView, error)
	FindSpotByID(ctx context.Context, id uuid.UUID) (*SpotView, error)
}

type SpotQueries interface {
	ListLocations(ctx context.Context) ([]*LocationView, error)
	ListSpots(ctx context.Context, locationID uuid.UUID) ([]*SpotView, error)
	GetSpot(ctx context.Context, id uuid.UUID) (*SpotView, error)
	// CheckAvailability runs the booking checks for a window without writing anything.
	CheckAvailability(ctx context.Context, spotID uuid.UUID, start, end time.Time) (*AvailabilityView, error)
}

type spotQueriesImpl struct {
	spots        SpotReadStore
	reservations ReservationReadStore
	policy       reservation.WindowPolicy
	pricing      reservation.PriceCalculator
	clock        clock.Clock
}

func NewSpotQueries(
	spots SpotReadStore,
	reservations ReservationReadStore,
	policy reservation.WindowPolicy,
	pricing reservation.PriceCalculator,
	clock clock.Clock,
) SpotQueries {
	return &spotQueriesImpl{
		spots:        spots,
		reservations: reservations,
		policy:       policy,
		pricing:      pricing,
		clock:        clock,
	}
}

func (q *spotQueriesImpl) ListLocations(ctx context.Context) ([]*LocationView, error) {
	return q.spots.ListLocations(ctx)
}

func (q *spotQueriesImpl) ListSpots(ctx context.Context, locationID uuid.UUID) ([]*SpotView, error) {
	if _, err := q.spots.FindLocationByID(ctx, locationID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	return q.spots.ListSpotsByLocation(ctx, locationID)
}

func (q *spotQueriesImpl) GetSpot(ctx context.Context, id uuid.UUID) (*SpotView, error) {
	spot, err := q.spots.FindSpotByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrSpotNotFound
		}
		return nil, err
	}
	return spot, nil
}

func (q *spotQueriesImpl) CheckAvailability(ctx context.Context, spotID uuid.UUID, start, end time.Time) (*AvailabilityView, error) {
	window, err := q.policy.Validate(start, end, q.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidWindow)
	}

	spot, err := q.GetSpot(ctx, spotID)
	if err != nil {
		return nil, err
	}

	rate, err := reservation.NewMoney(spot.HourlyRateCents)
	if err != nil {
		return nil, err
	}

	result := &AvailabilityView{
		SpotID:     spotID,
		StartTime:  window.Start(),
		EndTime:    window.End(),
		Available:  true,
		QuoteCents: q.pricing.Quote(rate, window).Cents(),
	}

	existing, err := q.reservations.FindActiveOverlapping(ctx, spotID, window)
	if err != nil {
		return nil, err
	}
	if conflict, found := reservation.FindConflict(window, existing, nil); found {
		result.Available = false
		result.Reason = UnavailableConflict
		result.ConflictingID = &conflict.ID
		return result, nil
	}

	if !spot.InService || !spot.IsAvailable {
		result.Available = false
		result.Reason = UnavailableSpot
	}

	return result, nil
}
