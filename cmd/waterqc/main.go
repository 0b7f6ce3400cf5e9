// Command waterqc runs the water-safety scoring service: the HTTP API, and
// optionally the Kafka assessment pipeline and the MQTT station bridge.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/wargaair/water-safety-service/internal/adapter/cache"
	"github.com/wargaair/water-safety-service/internal/adapter/gormstore"
	httpadapter "github.com/wargaair/water-safety-service/internal/adapter/http"
	kafkaadapter "github.com/wargaair/water-safety-service/internal/adapter/kafka"
	mqttadapter "github.com/wargaair/water-safety-service/internal/adapter/mqtt"
	"github.com/wargaair/water-safety-service/internal/adapter/refdata"
	"github.com/wargaair/water-safety-service/internal/assessment"
	"github.com/wargaair/water-safety-service/internal/config"
	"github.com/wargaair/water-safety-service/internal/domain"
	"github.com/wargaair/water-safety-service/internal/observability"
	"github.com/wargaair/water-safety-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var closers []func() error

	refs, closeRefs, err := openReferenceData(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open reference data", "error", err, "source", cfg.RefdataSource)
		os.Exit(1)
	}
	if closeRefs != nil {
		closers = append(closers, closeRefs)
	}

	verdicts, closeCache, err := openVerdictCache(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open verdict cache", "error", err, "backend", cfg.CacheBackend)
		os.Exit(1)
	}
	if closeCache != nil {
		closers = append(closers, closeCache)
	}

	svc := assessment.NewService(refs, verdicts, logger, metrics)
	checks := readiness{svc}

	if cfg.PipelineEnabled {
		reader := kafkaadapter.NewReader(cfg, logger)
		writer := kafkaadapter.NewWriter(cfg, logger)
		closers = append(closers, reader.Close, writer.Close)

		transformer := pipeline.NewTransformer(svc, logger)
		p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	} else {
		logger.Info("kafka pipeline disabled")
	}

	if cfg.MQTTEnabled {
		client, err := mqttadapter.NewClient(mqttadapter.ClientConfig{
			Broker:   cfg.MQTTBroker,
			ClientID: cfg.MQTTClientID,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to mqtt broker", "error", err)
			os.Exit(1)
		}
		closers = append(closers, func() error { client.Close(); return nil })
		checks = append(checks, mqttReadiness{client})

		station := mqttadapter.NewStation(client, mqttadapter.StationConfig{
			ReadingsTopic:    cfg.MQTTReadingsTopic,
			AssessmentsTopic: cfg.MQTTAssessmentsTopic,
		}, svc, logger, metrics)
		if err := station.Start(ctx); err != nil {
			logger.Error("failed to subscribe to station readings", "error", err)
			os.Exit(1)
		}
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, checks, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			logger.Error("close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// openReferenceData returns the configured reference data providers and an
// optional close function.
func openReferenceData(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.ReferenceData, func() error, error) {
	switch cfg.RefdataSource {
	case config.RefdataMySQL:
		store, err := gormstore.Open(cfg.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close() //nolint:errcheck // already failing
			return nil, nil, err
		}
		logger.Info("reference data from mysql")
		return store, store.Close, nil
	default:
		store, err := refdata.Load(cfg.RefdataFile)
		if err != nil {
			return nil, nil, err
		}
		go reloadOnHangup(ctx, store, logger)
		logger.Info("reference data from file", "path", cfg.RefdataFile)
		return store, nil, nil
	}
}

// reloadOnHangup re-reads the reference file on SIGHUP until ctx is done.
func reloadOnHangup(ctx context.Context, store *refdata.Store, logger *slog.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := store.Reload(); err != nil {
				logger.Error("reference data reload failed, keeping previous data", "error", err)
				continue
			}
			logger.Info("reference data reloaded")
		}
	}
}

func openVerdictCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (assessment.VerdictCache, func() error, error) {
	switch cfg.CacheBackend {
	case config.CacheMemory:
		logger.Info("verdict cache in memory", "size", cfg.CacheSize, "ttl", cfg.CacheTTL)
		return cache.NewMemory(cfg.CacheSize, cfg.CacheTTL), nil, nil
	case config.CacheRedis:
		r, err := cache.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("verdict cache in redis", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
		return r, r.Close, nil
	default:
		logger.Info("verdict cache disabled")
		return nil, nil, nil
	}
}

// readiness is ready when every check passes.
type readiness []sharedobs.ReadinessChecker

func (r readiness) CheckReadiness(ctx context.Context) error {
	for _, c := range r {
		if err := c.CheckReadiness(ctx); err != nil {
			return err
		}
	}
	return nil
}

type mqttReadiness struct {
	client *mqttadapter.Client
}

func (m mqttReadiness) CheckReadiness(context.Context) error {
	if !m.client.IsConnected() {
		return errors.New("mqtt broker not connected")
	}
	return nil
}
