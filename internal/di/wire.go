//go:build wireinject
// +build wireinject

package di

import (
	"CoinGate/pkg/config"
	"CoinGate/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Infrastructure
		ProvideKafkaProducer,
		ProvideLogger,
		ProvideMetrics,
		ProvideHTTPClient,

		// Services
		ProvideCredentialResolver,
		ProvideUpstream,
		ProvideRenderer,

		// Use cases
		ProvideMarketProxy,
		ProvideGraphGenerator,

		// Transport
		ProvideHTTPHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
