package guardian

import (
	"github.com/yaseeradam/school-ms-sub002/internal/guardian/repository"
	"github.com/yaseeradam/school-ms-sub002/internal/guardian/service"
	"go.uber.org/fx"
)

var Module = fx.Module("guardian.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
