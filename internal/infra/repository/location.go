package repository

import (
	"context"

	"parking-reservation/internal/domain/location"
	"parking-reservation/internal/infra"
	"parking-reservation/internal/infra/repository/converter"
	sqlc "parking-reservation/internal/infra/sqlc/generated"
	"parking-reservation/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type LocationWriteQueries interface {
	GetLocationByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Locations, error)
	CreateLocation(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateLocationParams) (sqlc.Locations, error)
}

type LocationRepository struct {
	queries LocationWriteQueries
	db      sqlc.DBTX
}

func NewLocationRepository(queries LocationWriteQueries, db sqlc.DBTX) *LocationRepository {
	return &LocationRepository{
		queries: queries,
		db:      db,
	}
}

func (r *LocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*location.Location, error) {
	row, err := r.queries.GetLocationByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("location not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find location", err)
	}
	return converter.LocationToDomain(row), nil
}

func (r *LocationRepository) Create(ctx context.Context, l *location.Location) error {
	_, err := r.queries.CreateLocation(ctx, r.db, sqlc.CreateLocationParams{
		ID:      l.ID(),
		Name:    l.Name(),
		Address: l.Address(),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to create location", err)
	}
	return nil
}
