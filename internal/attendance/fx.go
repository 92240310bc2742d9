package attendance

import (
	"github.com/yaseeradam/school-ms-sub002/internal/attendance/repository"
	"github.com/yaseeradam/school-ms-sub002/internal/attendance/service"
	"go.uber.org/fx"
)

var Module = fx.Module("attendance.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
