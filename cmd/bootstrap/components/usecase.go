package components

import (
	"parking-reservation/internal/domain/overstay"
	"parking-reservation/internal/domain/reservation"
	"parking-reservation/internal/pkg/clock"
	"parking-reservation/internal/pkg/config"
	"parking-reservation/internal/usecase"
	"parking-reservation/internal/usecase/commands"
	"parking-reservation/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) reservation.WindowPolicy {
		return reservation.NewWindowPolicy(cfg.Booking.MaxDuration, cfg.Booking.MaxHorizon)
	},
	fx.Annotate(
		func(cfg config.Config) *reservation.TieredPriceCalculator {
			return reservation.NewTieredPriceCalculator(cfg.Booking.BaseFeeCents)
		},
		fx.As(new(reservation.PriceCalculator)),
	),
	func(cfg config.Config) *overstay.Evaluator {
		return overstay.NewEvaluator(overstay.NewBlockRatePolicy(cfg.Overstay.BlockMinutes, cfg.Overstay.BlockFeeCents))
	},
	func(cfg config.Config) commands.ReservationSettings {
		return commands.ReservationSettings{
			RedeemEarly:    cfg.Booking.RedeemEarly,
			IdempotencyTTL: cfg.Booking.IdempotencyTTL,
		}
	},
	func(cfg config.Config) commands.SweepSettings {
		return commands.SweepSettings{
			JobRetention: cfg.Sweep.JobRetention,
			PurgeQueued:  !cfg.Kafka.Enabled(),
		}
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewReservationCommands,
		commands.NewChargeCommands,
		commands.NewPaymentCommands,
		commands.NewSpotCommands,
		commands.NewSweepCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewReservationQueries,
		queries.NewOverstayQueries,
		queries.NewSpotQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
