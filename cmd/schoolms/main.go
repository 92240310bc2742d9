package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/yaseeradam/school-ms-sub002/internal/clock"
	"github.com/yaseeradam/school-ms-sub002/internal/config"
	"github.com/yaseeradam/school-ms-sub002/internal/migration"
	"github.com/yaseeradam/school-ms-sub002/internal/observability"
	"github.com/yaseeradam/school-ms-sub002/internal/scheduler"
	"github.com/yaseeradam/school-ms-sub002/internal/server"
	"github.com/yaseeradam/school-ms-sub002/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
		scheduler.Module,
	)
	app.Run()
}

func registerSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}
