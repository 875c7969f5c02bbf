package repository

import (
	"context"
	"time"

	"parking-reservation/internal/domain/spot"
	"parking-reservation/internal/infra"
	"parking-reservation/internal/infra/repository/converter"
	sqlc "parking-reservation/internal/infra/sqlc/generated"
	"parking-reservation/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type SpotWriteQueries interface {
	GetParkingSpotByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.ParkingSpots, error)
	GetParkingSpotForUpdate(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.ParkingSpots, error)
	CreateParkingSpot(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateParkingSpotParams) (sqlc.ParkingSpots, error)
	UpdateParkingSpot(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateParkingSpotParams) error
	RefreshSpotAvailability(ctx context.Context, db sqlc.DBTX, arg sqlc.RefreshSpotAvailabilityParams) (int64, error)
}

type SpotRepository struct {
	queries SpotWriteQueries
	db      sqlc.DBTX
}

func NewSpotRepository(queries SpotWriteQueries, db sqlc.DBTX) *SpotRepository {
	return &SpotRepository{
		queries: queries,
		db:      db,
	}
}

func (r *SpotRepository) FindByID(ctx context.Context, id uuid.UUID) (*spot.Spot, error) {
	row, err := r.queries.GetParkingSpotByID(ctx, r.db, id)
	if err != nil {
		return nil, wrapSpotErr(err, "failed to find parking spot")
	}
	return converter.SpotToDomain(row), nil
}

func (r *SpotRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*spot.Spot, error) {
	row, err := r.queries.GetParkingSpotForUpdate(ctx, r.db, id)
	if err != nil {
		return nil, wrapSpotErr(err, "failed to lock parking spot")
	}
	return converter.SpotToDomain(row), nil
}

func (r *SpotRepository) Create(ctx context.Context, s *spot.Spot) error {
	_, err := r.queries.CreateParkingSpot(ctx, r.db, sqlc.CreateParkingSpotParams{
		ID:              s.ID(),
		LocationID:      s.LocationID(),
		SpotNumber:      s.SpotNumber(),
		HourlyRateCents: s.HourlyRateCents(),
		IsAvailable:     s.IsAvailable(),
		InService:       s.InService(),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to create parking spot", err)
	}
	return nil
}

func (r *SpotRepository) Update(ctx context.Context, s *spot.Spot) error {
	err := r.queries.UpdateParkingSpot(ctx, r.db, sqlc.UpdateParkingSpotParams{
		ID:              s.ID(),
		HourlyRateCents: s.HourlyRateCents(),
		IsAvailable:     s.IsAvailable(),
		InService:       s.InService(),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to update parking spot", err)
	}
	return nil
}

func (r *SpotRepository) RefreshAvailability(ctx context.Context, spotID *uuid.UUID, now time.Time) (int64, error) {
	n, err := r.queries.RefreshSpotAvailability(ctx, r.db, sqlc.RefreshSpotAvailabilityParams{
		Now:    pgconv.TimeToPgtype(now),
		SpotID: pgconv.UUIDPtrToPgtype(spotID),
	})
	if err != nil {
		return 0, infra.WrapRepoErr("failed to refresh spot availability", err)
	}
	return n, nil
}

func wrapSpotErr(err error, msg string) error {
	if pgconv.IsNoRows(err) {
		return infra.WrapRepoErr("parking spot not found", err, infra.KindNotFound)
	}
	return infra.WrapRepoErr(msg, err)
}
