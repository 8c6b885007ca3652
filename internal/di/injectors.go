//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"github.com/sa03134/soomgo-competitor-tracker/internal"
	"github.com/sa03134/soomgo-competitor-tracker/internal/collector"
	"github.com/sa03134/soomgo-competitor-tracker/internal/controllers"
	"github.com/sa03134/soomgo-competitor-tracker/internal/extraction"
	"github.com/sa03134/soomgo-competitor-tracker/internal/fetcher"
	"github.com/sa03134/soomgo-competitor-tracker/internal/providers"
	"github.com/sa03134/soomgo-competitor-tracker/internal/services"
	"github.com/sa03134/soomgo-competitor-tracker/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewClockProvider,

		extraction.NewExtractor,
		fetcher.NewFetcher,
		collector.NewZstdCompressor,
		collector.NewColdArchive,
		collector.NewHistoryStore,
		wire.Bind(new(services.HistoryStoreInterface), new(*collector.HistoryStore)),
		services.NewCollectorService,
		services.NewHistoryService,
		collector.NewScheduler,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
