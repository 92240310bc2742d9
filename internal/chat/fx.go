package chat

import (
	"github.com/yaseeradam/school-ms-sub002/internal/chat/repository"
	"github.com/yaseeradam/school-ms-sub002/internal/chat/service"
	"go.uber.org/fx"
)

var Module = fx.Module("chat.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
