package migration

import (
	"github.com/yaseeradam/school-ms-sub002/internal/config"
	"github.com/yaseeradam/school-ms-sub002/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			log.Warn("skipping embedded migrations for non-postgres database",
				zap.String("type", cfg.DBType),
			)
		}

		if err := seed.EnsureDefaultPlans(conn); err != nil {
			return err
		}
		if cfg.BootstrapDemoSchool {
			return seed.EnsureDemoSchool(conn)
		}
		return nil
	}),
)
