package components

import (
	"parking-reservation/internal/infra/readstore"
	sqlc "parking-reservation/internal/infra/sqlc/generated"
	"parking-reservation/internal/infra/uow"
	"parking-reservation/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

// Write-side repositories are built per transaction by the unit of work; only
// the pool-bound read stores are provided here.
var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	fx.Provide(uow.NewPostgresUoW),
)

var baseOption = fx.Provide(
	NewSQLQueries,
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// User
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.UserReadQueries)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
		// Reservation
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.ReservationViewQueries)),
		),
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationReadStore)),
		),
		// Spot and location
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.SpotReadQueries)),
		),
		fx.Annotate(
			readstore.NewSpotReadStore,
			fx.As(new(queries.SpotReadStore)),
		),
		// Charge
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.ChargeReadQueries)),
		),
		fx.Annotate(
			readstore.NewChargeReadStore,
			fx.As(new(queries.ChargeReadStore)),
		),
	),
)

func NewSQLQueries(_ *pgxpool.Pool) *sqlc.Queries {
	return sqlc.New()
}

func NewDBTX(pool *pgxpool.Pool) sqlc.DBTX {
	return pool
}
