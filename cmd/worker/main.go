package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"bizfinder/internal/enrich"
	"bizfinder/internal/env"
	"bizfinder/internal/finder"
	"bizfinder/internal/keys"
	"bizfinder/internal/models"
	"bizfinder/internal/service"
	"bizfinder/internal/storage"
	"bizfinder/internal/worker"
	"bizfinder/pkg/graceful"
	"bizfinder/pkg/kafkaclient"
	"bizfinder/pkg/location"
	"bizfinder/pkg/logging"
	"bizfinder/pkg/social"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	foundDotEnv := env.LoadEnv()

	cfg, err := env.Load()
	if err != nil {
		return err
	}
	wcfg, err := env.LoadWorker()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.PrettyLogs)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	if !foundDotEnv {
		logger.Debug("no .env file found, using the process environment")
	}

	ctx, cancel := graceful.Context(context.Background(), logger)
	defer cancel()

	f, err := finder.New(cfg.FinderConfig(),
		finder.WithLogger(logger),
		finder.WithGeocoder(location.NewNominatim(cfg.NominatimURL)),
		finder.WithTimeout(cfg.ProviderTimeout),
	)
	if err != nil {
		return fmt.Errorf("building finder: %w", err)
	}
	logger.Info("finder ready", zap.Any("providers", f.Providers()))

	sinks, closeSinks, err := buildSinks(ctx, wcfg, logger)
	if err != nil {
		return err
	}
	defer closeSinks()

	socialSvc := social.NewService()
	if cfg.FacebookAccessToken != "" {
		socialSvc.Register(models.Facebook, social.NewFacebookClient(cfg.FacebookAccessToken))
	}
	pipeline := enrich.NewPipeline(logger,
		enrich.NewStage("social", worker.LikesStep(socialSvc, models.Facebook)),
		enrich.NewStage("sink", sinks...),
	)

	metricsSrv := serveMetrics(wcfg.MetricsAddr, logger)
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}()

	logger.Info("connecting to kafka",
		zap.String("broker", wcfg.KafkaBroker),
		zap.String("topic", wcfg.RequestTopic),
		zap.String("group_id", wcfg.GroupID),
	)
	consumer := kafkaclient.NewKafkaConsumer(wcfg.RequestTopic, wcfg.GroupID, wcfg.KafkaBroker, logger)
	consumer.StartConsuming(ctx)
	defer consumer.Stop()

	requests := service.NewIterator(consumer, service.DecodeSearchRequest, logger)
	worker.New(f, pipeline, logger).Run(ctx, requests.Objects(ctx), requests.Commit)

	logger.Info("worker finished")
	return nil
}

// buildSinks returns the steps of the last pipeline stage for every
// configured destination.
func buildSinks(ctx context.Context, wcfg env.WorkerConfig, logger *zap.Logger) ([]enrich.Step[worker.Job], func(), error) {
	var (
		steps   []enrich.Step[worker.Job]
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) ([]enrich.Step[worker.Job], func(), error) {
		closeAll()
		return nil, nil, err
	}

	if wcfg.MinioEndpoint != "" {
		s3, err := storage.NewS3Service(storage.S3Options{
			Endpoint:  wcfg.MinioEndpoint,
			AccessKey: wcfg.MinioAccessKey,
			SecretKey: wcfg.MinioSecretKey,
			UseSSL:    wcfg.MinioUseSSL,
		}, func(r *models.SearchResult) string {
			return keys.SearchResult(r.SearchID, r.Query)
		}, logger)
		if err != nil {
			return fail(err)
		}
		if err := s3.CreateBucket(ctx, wcfg.ResultsBucket, ""); err != nil {
			return fail(err)
		}
		steps = append(steps, worker.StoreStep(s3, wcfg.ResultsBucket))
	}

	if wcfg.DatabaseURL != "" {
		pool, err := storage.NewPostgresPool(ctx, wcfg.DatabaseURL)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, pool.Close)
		store := storage.NewPostgresStore(pool, logger)
		if err := store.EnsureSchema(ctx); err != nil {
			return fail(err)
		}
		steps = append(steps, worker.UpsertStep(store))
	}

	if wcfg.ResultTopic != "" {
		producer := kafkaclient.NewProducer(wcfg.KafkaBroker, wcfg.ResultTopic, logger)
		closers = append(closers, func() {
			if err := producer.Close(); err != nil {
				logger.Warn("failed to close kafka producer", zap.Error(err))
			}
		})
		steps = append(steps, worker.PublishStep(producer))
	}

	if len(steps) == 0 {
		logger.Warn("no result sink configured, results are only logged")
	}
	return steps, closeAll, nil
}

func serveMetrics(addr string, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", zap.Error(err))
		}
	}()
	logger.Info("serving metrics", zap.String("addr", addr))
	return srv
}
