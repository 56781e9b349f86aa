package components

import (
	"lendloop/internal/handler"
	"lendloop/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewItemHandler,
		api.NewUserHandler,
	),
	fx.Invoke(handler.NewRouter),
)
