package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"TransitScan/internal/domain/repository"
	domsvc "TransitScan/internal/domain/service"
	"TransitScan/internal/handler/api"
	mid "TransitScan/internal/middleware"
	internalrepo "TransitScan/internal/repository"
	icache "TransitScan/internal/service/cache"
	"TransitScan/internal/service/photfeed"
	"TransitScan/internal/services/catalog"
	"TransitScan/internal/services/transit"
	"TransitScan/internal/usecase"
	pkgcache "TransitScan/pkg/cache"
	pkgch "TransitScan/pkg/clickhouse"
	"TransitScan/pkg/config"
	pkgkafka "TransitScan/pkg/kafka"
	applogger "TransitScan/pkg/logger"
	"TransitScan/pkg/metrics"
	"TransitScan/pkg/queue"
	"TransitScan/pkg/server"
)

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS transitscan",
		`CREATE TABLE IF NOT EXISTS transitscan.phot_raw (
            ts DateTime, target String, flux Float64, sigma Float64,
            source String, event_id String
        ) ENGINE=MergeTree ORDER BY (target, ts)`,
		`CREATE TABLE IF NOT EXISTS transitscan.phot_1s (
            target String, bucket DateTime, flux Float64, sigma Float64
        ) ENGINE=ReplacingMergeTree ORDER BY (target, bucket)`,
		`CREATE TABLE IF NOT EXISTS transitscan.phot_1m (
            target String, bucket DateTime, flux Float64, sigma Float64
        ) ENGINE=ReplacingMergeTree ORDER BY (target, bucket)`,
		`CREATE MATERIALIZED VIEW IF NOT EXISTS transitscan.mv_phot_1s
            TO transitscan.phot_1s AS
            SELECT target, toStartOfSecond(ts) AS bucket,
                   avg(flux) AS flux, avg(sigma) AS sigma
            FROM transitscan.phot_raw GROUP BY target, bucket`,
		`CREATE MATERIALIZED VIEW IF NOT EXISTS transitscan.mv_phot_1m
            TO transitscan.phot_1m AS
            SELECT target, toStartOfMinute(ts) AS bucket,
                   avg(flux) AS flux, avg(sigma) AS sigma
            FROM transitscan.phot_raw GROUP BY target, bucket`,
		`CREATE TABLE IF NOT EXISTS transitscan.fit_results (
            target String, ts DateTime, found UInt8,
            depth Float64, duration Float64, start_t1 Float64,
            chi2 Float64, evaluated Int64
        ) ENGINE=MergeTree ORDER BY (target, ts)`,
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvidePointStorage creates ClickHouse storage repository.
func ProvidePointStorage(chClient *pkgch.Client, cfg *config.Config) repository.Storage {
	return internalrepo.NewClickHouseStorage(chClient.DB(), cfg.ClickHouse.Database+".phot_raw")
}

// ProvidePointPublisher creates Kafka publisher repository.
func ProvidePointPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaPointsHandler registers handler for the photometry topic.
func ProvideKafkaPointsHandler(store repository.Storage, metrics repository.Metrics, cfg *config.Config) *usecase.KafkaPointsHandler {
	return usecase.NewKafkaPointsHandler(cfg.Kafka.Topic, store, metrics)
}

// ProvideFeedStream creates the photometry WebSocket stream.
func ProvideFeedStream(cfg *config.Config) repository.PhotometryStream {
	return photfeed.New(
		cfg.Feed.APIKey,
		cfg.Feed.WebSocketURL,
		cfg.Feed.Targets,
		cfg.Feed.ReconnectDelay,
		cfg.Feed.PingInterval,
	)
}

// ProvidePointProcessor creates the point processor use case.
func ProvidePointProcessor(
	pub repository.Publisher,
	store repository.Storage,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.PointProcessor {
	return usecase.NewPointProcessor(
		pub,
		store,
		metrics,
		cfg.Backend.Type,
		cfg.Backend.BatchSize,
		cfg.Backend.BatchTimeout,
	)
}

// ProvidePointCollector creates the point collector use case.
func ProvidePointCollector(
	stream repository.PhotometryStream,
	processor *usecase.PointProcessor,
	metrics repository.Metrics,
) *usecase.PointCollector {
	// Build middleware pipeline between WebSocket and the backend
	pipe := mid.NewIngestPipeline(processor, metrics,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewPointCollector(stream, processor, metrics, pipe)
}

// ProvideLightCurveStore creates the ClickHouse-backed light curve store.
func ProvideLightCurveStore(chClient *pkgch.Client, l *applogger.Logger) repository.LightCurveStore {
	store := internalrepo.NewCHLightCurveStore(chClient)
	store.SetLogger(l)
	return store
}

// ProvideTargetCatalog creates the HTTP target catalog client when configured.
// With Redis enabled, catalog lookups go through the layered cache so all
// replicas share them.
func ProvideTargetCatalog(cfg *config.Config) domsvc.TargetCatalog {
	if cfg.Catalog.URL == "" {
		return nil
	}
	cat := catalog.NewHTTPTargetCatalog(cfg)
	if cfg.Fitter.Redis.Enabled {
		host, portStr, err := net.SplitHostPort(cfg.Fitter.Redis.Addr)
		if err == nil {
			port, _ := strconv.Atoi(portStr)
			rc, rerr := pkgcache.NewRedisCache(
				pkgcache.WithRedisHost(host),
				pkgcache.WithRedisPort(port),
				pkgcache.WithRedisPassword(cfg.Fitter.Redis.Password),
				pkgcache.WithRedisDB(cfg.Fitter.Redis.DB),
			)
			if rerr == nil {
				cat.SetCache(pkgcache.NewLayeredCache(rc, pkgcache.WithLayeredMemorySize(256)))
			}
		}
	}
	return cat
}

// ProvideTransitSearch creates the grid-search use case with sequential and
// parallel fitters.
func ProvideTransitSearch(
	store repository.LightCurveStore,
	cat domsvc.TargetCatalog,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.TransitSearch {
	seq := transit.NewFitter(1)
	par := transit.NewFitter(cfg.Fitter.Workers)
	return usecase.NewTransitSearch(store, seq, par, cat, metrics)
}

// ProvideLightCurveUseCase creates the light curve query use case.
func ProvideLightCurveUseCase(store repository.LightCurveStore) *usecase.LightCurveUseCase {
	return usecase.NewLightCurveUseCase(store)
}

// ProvideFitJobRegistry creates the in-memory fit job registry.
func ProvideFitJobRegistry() *usecase.FitJobRegistry {
	return usecase.NewFitJobRegistry()
}

// ProvideTransitHandler creates the Echo HTTP handler with cache wiring.
func ProvideTransitHandler(
	l *applogger.Logger,
	search *usecase.TransitSearch,
	curves *usecase.LightCurveUseCase,
	cfg *config.Config,
) *api.TransitEchoHandler {
	h := api.NewTransitEchoHandler(l, search, curves)
	if cfg.Fitter.Redis.Enabled {
		h.SetCache(icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Fitter.Redis.Addr,
			Password: cfg.Fitter.Redis.Password,
			DB:       cfg.Fitter.Redis.DB,
		}))
	} else {
		h.SetCache(icache.NewTTLCache())
	}
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	collector *usecase.PointCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaPointsHandler,
	chClient *pkgch.Client,
	metrics repository.Metrics,
	handler *api.TransitEchoHandler,
	search *usecase.TransitSearch,
	jobs *usecase.FitJobRegistry,
	l *applogger.Logger,
) *server.App {
	// Count failed consumes; payload details go to the consumer's own logs.
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.HookFuncs{
			Err: func(_ context.Context, topic string, _ kafka.Message, _ []byte, _ error) {
				metrics.RecordError("kafka_consume_" + topic)
			},
		})
	}
	app := server.New(cfg, collector, consumer, kh, chClient, metrics)

	// Async fit jobs over Redis when enabled
	if cfg.Fitter.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Fitter.Redis.Addr,
			Password: cfg.Fitter.Redis.Password,
			DB:       cfg.Fitter.Redis.DB,
		})
		q := queue.NewRedisQueue(l, &queue.QueueConfig{
			Workers:    cfg.Fitter.Jobs.Workers,
			RetryLimit: cfg.Fitter.Jobs.RetryLimit,
			RetryDelay: cfg.Fitter.Jobs.RetryDelay,
		}, client, queue.ModeProducerConsumer)
		q.RegisterJob(usecase.NewTransitFitJob(search, jobs, l))
		if err := q.Start(); err != nil {
			l.Error("fit job queue start failed", applogger.Error(err))
		} else {
			q.StartRetryProcessor()
			handler.SetJobQueue(q, jobs)
			app.SetJobQueue(q)
			// aggregate repeated error logs onto the queue transport
			l.AddCollector(&applogger.CollectionConfig{
				TimeInterval:   30 * time.Second,
				CountThreshold: 100,
				Topic:          "logs.aggregated",
				Publisher:      q,
			})
		}
	}

	app.SetHTTPHandler(handler)
	// attach point processor to app for closing resources via collector
	if collector != nil {
		app.PointProc = collector.Processor()
	}
	return app
}
