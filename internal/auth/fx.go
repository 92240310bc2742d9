package auth

import (
	"github.com/yaseeradam/school-ms-sub002/internal/clock"
	"github.com/yaseeradam/school-ms-sub002/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("auth",
	fx.Provide(func(cfg config.Config, clk clock.Clock) *Issuer {
		return NewIssuer(cfg.AuthJWTSecret, 0, clk)
	}),
)
