//go:build wireinject
// +build wireinject

package di

import (
	"TransitScan/pkg/config"
	"TransitScan/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Metrics and logging
		ProvideMetrics,
		ProvideLogger,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories (with business logic)
		ProvidePointStorage,
		ProvidePointPublisher,
		ProvideFeedStream,
		ProvideLightCurveStore,
		ProvideTargetCatalog,

		// Use cases
		ProvidePointProcessor,
		ProvidePointCollector,
		ProvideKafkaPointsHandler,
		ProvideTransitSearch,
		ProvideLightCurveUseCase,
		ProvideFitJobRegistry,

		// HTTP
		ProvideTransitHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
