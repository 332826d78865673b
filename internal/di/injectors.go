//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"streamguard/internal"
	"streamguard/internal/controllers"
	"streamguard/internal/history"
	"streamguard/internal/providers"
	"streamguard/internal/services"
	"streamguard/internal/snapshot"
	"streamguard/internal/store"
	"streamguard/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		store.NewLocalStore,
		store.NewStore,
		history.NewClient,
		services.NewDirectoryService,
		services.NewScheduleService,
		services.NewProgressService,

		snapshot.NewZstdCompressor,
		snapshot.NewArchiver,
		snapshot.NewScheduler,

		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
