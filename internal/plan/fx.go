package plan

import (
	"github.com/yaseeradam/school-ms-sub002/internal/plan/repository"
	"github.com/yaseeradam/school-ms-sub002/internal/plan/service"
	"go.uber.org/fx"
)

var Module = fx.Module("plan.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
