//go:build wireinject
// +build wireinject

package di

import (
	"ghstats/internal"
	"ghstats/internal/controllers"
	"ghstats/internal/datasource"
	"ghstats/internal/providers"
	"ghstats/internal/services"
	"ghstats/internal/statistic"
	"ghstats/internal/statistic/interfaces"
	"ghstats/internal/structures"

	wire "github.com/google/wire"
)

var statsSet = wire.NewSet(
	providers.NewConfigProvider,
	providers.NewLogProvider,
	providers.NewMetricsProvider,

	statistic.NewCompressor,
	statistic.NewBlobStore,
	statistic.NewSnapshotCache,
	wire.Bind(new(interfaces.SnapshotStoreInterface), new(*statistic.SnapshotCache)),
	statistic.NewStreakEngine,
	statistic.NewPeriodAggregator,
	datasource.NewActivityDataSource,
	services.NewStatsService,
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		statsSet,
		providers.NewInstrumentedCacheProvider,
		statistic.NewScheduler,
		controllers.NewApiController,
		controllers.NewIndexController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}

func InitConsole(cfg *structures.CliFlags) (*internal.Console, error) {

	wire.Build(
		statsSet,
		internal.NewConsole,
	)

	return nil, nil
}
