package teacher

import (
	"github.com/yaseeradam/school-ms-sub002/internal/teacher/repository"
	"github.com/yaseeradam/school-ms-sub002/internal/teacher/service"
	"go.uber.org/fx"
)

var Module = fx.Module("teacher.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
