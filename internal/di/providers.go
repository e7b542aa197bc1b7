package di

import (
	"fmt"

	"CoinGate/internal/domain/repository"
	"CoinGate/internal/handler/api"
	"CoinGate/internal/service/credentials"
	"CoinGate/internal/service/limiter"
	"CoinGate/internal/service/render"
	"CoinGate/internal/service/upstream"
	"CoinGate/internal/usecase"
	"CoinGate/pkg/config"
	xhttp "CoinGate/pkg/http"
	pkgkafka "CoinGate/pkg/kafka"
	applogger "CoinGate/pkg/logger"
	"CoinGate/pkg/metrics"
	"CoinGate/pkg/server"
)

// ProvideKafkaProducer creates the log-shipping producer. It returns nil
// when shipping is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Logging.Ship.Enabled {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Logging.Ship.Brokers),
		pkgkafka.WithCompression(cfg.Logging.Ship.Compression),
		pkgkafka.WithRequiredAcks(1),
		pkgkafka.WithAsync(false),
		pkgkafka.WithAutoCreateTopic(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideLogger builds the process logger and, if a producer is present,
// attaches a collector that ships aggregated error entries.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	if producer != nil {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   cfg.Logging.Ship.Interval,
			CountThreshold: cfg.Logging.Ship.CountThreshold,
			Topic:          cfg.Logging.Ship.Topic,
			Publisher:      producer,
		})
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideHTTPClient creates the outbound client used for upstream calls.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(xhttp.WithTimeout(cfg.Upstream.Timeout))
}

// ProvideCredentialResolver creates the mode-aware credential resolver.
func ProvideCredentialResolver(cfg *config.Config) repository.CredentialResolver {
	return credentials.NewResolverFromConfig(cfg)
}

// ProvideUpstream creates the upstream client with its own concurrency cap.
func ProvideUpstream(
	cfg *config.Config,
	client *xhttp.Client,
	m repository.Metrics,
	l *applogger.Logger,
) repository.Upstream {
	lim := limiter.New("upstream", cfg.Upstream.MaxConcurrent, cfg.Upstream.AcquireTimeout, m)
	return upstream.NewClient(cfg.Upstream.BaseURL, client, lim, m,
		l.With(applogger.String("component", "upstream"), applogger.String("host", cfg.UpstreamHost())))
}

// ProvideRenderer creates the subprocess orchestrator with its own concurrency cap.
func ProvideRenderer(cfg *config.Config, m repository.Metrics, l *applogger.Logger) repository.Renderer {
	lim := limiter.New("render", cfg.Render.MaxConcurrent, cfg.Render.AcquireTimeout, m)
	return render.NewOrchestrator(render.OptionsFromConfig(cfg.Render), lim, m,
		l.With(applogger.String("component", "render")))
}

// ProvideMarketProxy creates the proxy use case.
func ProvideMarketProxy(creds repository.CredentialResolver, up repository.Upstream) *usecase.MarketProxy {
	return usecase.NewMarketProxy(creds, up)
}

// ProvideGraphGenerator creates the graph use case.
func ProvideGraphGenerator(r repository.Renderer) *usecase.GraphGenerator {
	return usecase.NewGraphGenerator(r)
}

// ProvideHTTPHandler groups every route set served by the gateway.
func ProvideHTTPHandler(
	cfg *config.Config,
	l *applogger.Logger,
	proxy *usecase.MarketProxy,
	graphs *usecase.GraphGenerator,
) xhttp.Handler {
	return xhttp.Handlers{
		api.NewHealthEchoHandler(cfg),
		api.NewMarketEchoHandler(l, proxy),
		api.NewGraphEchoHandler(l, graphs),
	}
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	producer *pkgkafka.Producer,
) *server.App {
	return server.New(cfg, l, handler, producer)
}
