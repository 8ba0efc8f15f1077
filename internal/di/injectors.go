//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"promod/internal"
	"promod/internal/controllers"
	"promod/internal/providers"
	"promod/internal/services"
	"promod/internal/structures"
	"promod/internal/transient"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.ProvideLogger,
		providers.NewMetricsProvider,
		providers.NewInstrumentedTransientProvider,
		providers.NewOptionProvider,
		providers.NewHttpClientProvider,
		providers.NewTemplateProvider,

		services.NewPromoService,
		transient.NewZstdCompressor,
		transient.NewFileManager,
		transient.NewScheduler,
		controllers.NewPromoController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil, nil
}
