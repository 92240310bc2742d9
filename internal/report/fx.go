package report

import (
	"github.com/yaseeradam/school-ms-sub002/internal/report/repository"
	"github.com/yaseeradam/school-ms-sub002/internal/report/service"
	"go.uber.org/fx"
)

var Module = fx.Module("report.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
