package readstore

import (
	"context"

	"parking-reservation/internal/infra"
	sqlc "parking-reservation/internal/infra/sqlc/generated"
	"parking-reservation/internal/pkg/pgconv"
	"parking-reservation/internal/usecase/queries"

	"github.com/google/uuid"
)

type SpotReadQueries interface {
	ListLocations(ctx context.Context, db sqlc.DBTX) ([]sqlc.Locations, error)
	GetLocationByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Locations, error)
	ListParkingSpotsByLocation(ctx context.Context, db sqlc.DBTX, locationID uuid.UUID) ([]sqlc.ParkingSpots, error)
	GetParkingSpotByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.ParkingSpots, error)
}

type SpotReadStore struct {
	queries SpotReadQueries
	db      sqlc.DBTX
}

func NewSpotReadStore(queries SpotReadQueries, db sqlc.DBTX) *SpotReadStore {
	return &SpotReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *SpotReadStore) ListLocations(ctx context.Context) ([]*queries.LocationView, error) {
	rows, err := r.queries.ListLocations(ctx, r.db)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list locations", err)
	}

	views := make([]*queries.LocationView, len(rows))
	for i, row := range rows {
		views[i] = toLocationView(row)
	}
	return views, nil
}

func (r *SpotReadStore) FindLocationByID(ctx context.Context, id uuid.UUID) (*queries.LocationView, error) {
	row, err := r.queries.GetLocationByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("location not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find location", err)
	}
	return toLocationView(row), nil
}

func (r *SpotReadStore) ListSpotsByLocation(ctx context.Context, locationID uuid.UUID) ([]*queries.SpotView, error) {
	rows, err := r.queries.ListParkingSpotsByLocation(ctx, r.db, locationID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list parking spots", err)
	}

	views := make([]*queries.SpotView, len(rows))
	for i, row := range rows {
		views[i] = toSpotView(row)
	}
	return views, nil
}

func (r *SpotReadStore) FindSpotByID(ctx context.Context, id uuid.UUID) (*queries.SpotView, error) {
	row, err := r.queries.GetParkingSpotByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("parking spot not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find parking spot", err)
	}
	return toSpotView(row), nil
}

func toLocationView(row sqlc.Locations) *queries.LocationView {
	return &queries.LocationView{
		ID:        row.ID,
		Name:      row.Name,
		Address:   row.Address,
		CreatedAt: pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt: pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}

func toSpotView(row sqlc.ParkingSpots) *queries.SpotView {
	return &queries.SpotView{
		ID:              row.ID,
		LocationID:      row.LocationID,
		SpotNumber:      row.SpotNumber,
		HourlyRateCents: row.HourlyRateCents,
		IsAvailable:     row.IsAvailable,
		InService:       row.InService,
		CreatedAt:       pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:       pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}
