package school

import (
	"github.com/yaseeradam/school-ms-sub002/internal/school/repository"
	"github.com/yaseeradam/school-ms-sub002/internal/school/service"
	"go.uber.org/fx"
)

var Module = fx.Module("school.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
