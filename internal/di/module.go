package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/vendingmachine/internal/app"
	"github.com/polkiloo/vendingmachine/internal/config"
	"github.com/polkiloo/vendingmachine/internal/logger"
	"github.com/polkiloo/vendingmachine/internal/pkg/auth"
	"github.com/polkiloo/vendingmachine/internal/server/http/handlers"
	"github.com/polkiloo/vendingmachine/internal/server/http/router"
	"github.com/polkiloo/vendingmachine/internal/storage/postgres"
	"github.com/polkiloo/vendingmachine/internal/usecase"
	"github.com/polkiloo/vendingmachine/internal/worker"
)

// Module composes the whole service graph. Extra options are appended last.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		usecase.Module,
		fx.Provide(
			func(s *postgres.Storage) app.HealthChecker { return s },
			func(s *postgres.Storage) worker.OrderPartitioner { return s },
			func(f *app.VendingFacade) handlers.VendingFacade { return f },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
