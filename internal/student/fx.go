package student

import (
	"github.com/yaseeradam/school-ms-sub002/internal/student/repository"
	"github.com/yaseeradam/school-ms-sub002/internal/student/service"
	"go.uber.org/fx"
)

var Module = fx.Module("student.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
