package config_fx

import (
	"go.uber.org/fx"

	"gatekeeper/internal/config"
)

var Module = fx.Provide(
	config.Load,
	config.NewLogger)
