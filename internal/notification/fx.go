package notification

import (
	"github.com/yaseeradam/school-ms-sub002/internal/notification/repository"
	"github.com/yaseeradam/school-ms-sub002/internal/notification/service"
	"go.uber.org/fx"
)

var Module = fx.Module("notification.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
