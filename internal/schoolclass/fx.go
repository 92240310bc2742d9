package schoolclass

import (
	"github.com/yaseeradam/school-ms-sub002/internal/schoolclass/repository"
	"github.com/yaseeradam/school-ms-sub002/internal/schoolclass/service"
	"go.uber.org/fx"
)

var Module = fx.Module("class.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
