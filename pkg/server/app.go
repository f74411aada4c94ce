package server

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"TransitScan/internal/domain/repository"
	domsvc "TransitScan/internal/domain/service"
	"TransitScan/internal/handler/api"
	chrepo "TransitScan/internal/repository"
	icache "TransitScan/internal/service/cache"
	"TransitScan/internal/services/catalog"
	"TransitScan/internal/services/transit"
	"TransitScan/internal/usecase"
	pkgch "TransitScan/pkg/clickhouse"
	"TransitScan/pkg/config"
	xhttp "TransitScan/pkg/http"
	pkgkafka "TransitScan/pkg/kafka"
	applogger "TransitScan/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	collector   *usecase.PointCollector
	consumer    *pkgkafka.Consumer
	kh          pkgkafka.MessageHandler
	chClient    *pkgch.Client
	metrics     repository.Metrics
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	PointProc   *usecase.PointProcessor
	jobQueue    interface {
		Stop(ctx context.Context) error
	}
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	collector *usecase.PointCollector,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	metrics repository.Metrics,
) *App {
	return &App{
		cfg:       cfg,
		collector: collector,
		consumer:  consumer,
		kh:        kh,
		chClient:  chClient,
		metrics:   metrics,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// SetJobQueue registers a started fit-job queue for shutdown.
func (a *App) SetJobQueue(q interface {
	Stop(ctx context.Context) error
}) {
	a.jobQueue = q
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// init app logger (console info by default)
	l, _ := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})

	// Setup Echo HTTP server using pkg/http and register routes via handler
	var httpHandler xhttp.Handler
	if a.httpHandler != nil {
		httpHandler = a.httpHandler
	} else if a.chClient != nil {
		store := chrepo.NewCHLightCurveStore(a.chClient)
		store.SetLogger(l)

		var cat domsvc.TargetCatalog
		if a.cfg.Catalog.URL != "" {
			cat = catalog.NewHTTPTargetCatalog(a.cfg)
		}
		seq := transit.NewFitter(1)
		par := transit.NewFitter(a.cfg.Fitter.Workers)
		search := usecase.NewTransitSearch(store, seq, par, cat, a.metrics)
		curves := usecase.NewLightCurveUseCase(store)

		te := api.NewTransitEchoHandler(l, search, curves)
		te.SetCache(icache.NewTTLCache())
		httpHandler = te
	}

	a.httpServer = xhttp.NewServer(httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Start collector
	go func() {
		if err := a.collector.Start(ctx); err != nil {
			l.Error("collector error", applogger.Error(err))
		}
	}()
	l.Info("collector started", applogger.Strings("targets", a.cfg.Feed.Targets))

	// Start consumer if configured
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	// best-effort logging via stdout
	l, err := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		log.Printf("failed to create logger: %v", err)
		return err
	}
	l.Info("shutting down...")

	// Stop collector (pipeline + stream)
	if err := a.collector.Shutdown(ctx); err != nil {
		l.Warn("collector stop error", applogger.Error(err))
	}

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Stop fit-job queue workers
	if a.jobQueue != nil {
		if err := a.jobQueue.Stop(ctx); err != nil {
			l.Warn("job queue stop error", applogger.Error(err))
		}
	}

	// Close infrastructure clients
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	// Stop consumer
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Close point processor resources (publisher/storage)
	if a.PointProc != nil {
		a.PointProc.Close()
	}

	l.Info("shutdown complete")
	return nil
}
