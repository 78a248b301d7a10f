package components

import (
	"parking-reservation/internal/handler"
	"parking-reservation/internal/handler/api"
	"parking-reservation/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewReservationHandler,
		api.NewWaitlistHandler,
		api.NewCouponHandler,
		api.NewPaymentHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
