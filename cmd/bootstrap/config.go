package bootstrap

import (
	"lendloop/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config", fx.Provide(config.LoadConfig))
