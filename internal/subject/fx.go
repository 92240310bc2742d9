package subject

import (
	"github.com/yaseeradam/school-ms-sub002/internal/subject/repository"
	"github.com/yaseeradam/school-ms-sub002/internal/subject/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subject.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
