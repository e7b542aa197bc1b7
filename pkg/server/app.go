package server

import (
	"context"

	"CoinGate/pkg/config"
	xhttp "CoinGate/pkg/http"
	pkgkafka "CoinGate/pkg/kafka"
	applogger "CoinGate/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	producer   *pkgkafka.Producer
}

// New creates a new App. producer may be nil when log shipping is off.
func New(cfg *config.Config, log *applogger.Logger, handler xhttp.Handler, producer *pkgkafka.Producer) *App {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	srv := xhttp.NewServer(handler,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithStaticDir(cfg.Server.StaticDir),
		xhttp.WithLogger(log),
	)

	return &App{cfg: cfg, log: log, httpServer: srv, producer: producer}
}

// Server exposes the HTTP server, mainly for tests.
func (a *App) Server() *xhttp.Server { return a.httpServer }

// Run starts the application and blocks until ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting gateway",
		applogger.String("env", a.cfg.Environment),
		applogger.String("mode", string(a.cfg.Mode)),
		applogger.String("upstream", a.cfg.UpstreamHost()),
		applogger.String("render_command", a.cfg.Render.Command),
		applogger.Bool("log_shipping", a.producer != nil),
	)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	<-ctx.Done()

	a.log.Info("shutdown signal received")
	return a.Shutdown(context.WithoutCancel(ctx))
}

// Shutdown stops the HTTP server, then flushes and closes log shipping.
func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	var firstErr error
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		firstErr = err
	}

	// collector flushes through the producer, so it goes first
	a.log.RemoveCollector()
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.log.Warn("kafka producer close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return firstErr
}
