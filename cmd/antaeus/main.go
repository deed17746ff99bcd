package main

import (
	"github.com/Markinhos/antaeus/internal/billing"
	"github.com/Markinhos/antaeus/internal/clock"
	"github.com/Markinhos/antaeus/internal/config"
	"github.com/Markinhos/antaeus/internal/customer"
	"github.com/Markinhos/antaeus/internal/escalation"
	"github.com/Markinhos/antaeus/internal/events"
	"github.com/Markinhos/antaeus/internal/invoice"
	"github.com/Markinhos/antaeus/internal/migration"
	"github.com/Markinhos/antaeus/internal/notification"
	"github.com/Markinhos/antaeus/internal/observability/logger"
	"github.com/Markinhos/antaeus/internal/observability/tracing"
	"github.com/Markinhos/antaeus/internal/payment"
	"github.com/Markinhos/antaeus/internal/scheduler"
	"github.com/Markinhos/antaeus/internal/seed"
	"github.com/Markinhos/antaeus/internal/server"
	"github.com/Markinhos/antaeus/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var version = "dev"

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		tracing.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		db.Module,
		fx.Provide(events.NewOutbox),
		fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := migration.RunMigrations(sqlDB); err != nil {
				return err
			}
			if !cfg.IsProduction() && cfg.Bootstrap.SeedDemoData {
				return seed.EnsureDemoData(conn)
			}
			return nil
		}),
		clock.Module,
		customer.Module,
		invoice.Module,
		payment.Module,
		notification.Module,
		escalation.Module,
		billing.Module,
		scheduler.Module,
		server.Module,
	)
	app.Run()
}
