package components

import (
	"parking-reservation/internal/handler"
	"parking-reservation/internal/handler/api"
	"parking-reservation/internal/handler/middleware"
	"parking-reservation/internal/handler/validation"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewReservationHandler,
		api.NewSpotHandler,
		api.NewPaymentHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(
		validation.Register,
		handler.NewRouter,
	),
)
