package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/namitjain73/IPEC-Hackethon/internal/application/usecase"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/feature"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/port"
	"github.com/namitjain73/IPEC-Hackethon/internal/domain/service"
	"github.com/namitjain73/IPEC-Hackethon/internal/infrastructure/artifact"
	"github.com/namitjain73/IPEC-Hackethon/internal/infrastructure/config"
	"github.com/namitjain73/IPEC-Hackethon/internal/infrastructure/kafka"
	"github.com/namitjain73/IPEC-Hackethon/internal/infrastructure/messaging"
	"github.com/namitjain73/IPEC-Hackethon/internal/presentation/rest"
	pkgkafka "github.com/namitjain73/IPEC-Hackethon/pkg/kafka"
	"github.com/namitjain73/IPEC-Hackethon/pkg/observability"
	"github.com/namitjain73/IPEC-Hackethon/pkg/tlsutil"
)

const serviceName = "vegmld"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:   observability.LevelForDebug(cfg.LogLevel, cfg.Debug),
		Format:  cfg.LogFormat,
		Service: serviceName,
	})

	logger.Info("starting vegmld",
		"port", cfg.Port,
		"models_dir", cfg.ModelsDir,
		"debug", cfg.Debug,
	)

	// Initialize tracing.
	if cfg.Tracing {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: serviceName,
			Endpoint:    cfg.OTLPEndpoint,
			Insecure:    true,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	// Initialize metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: serviceName})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	defer meterProvider.Shutdown(context.Background())

	// Load artifacts. Missing ones only disable their own endpoints.
	store := artifact.NewFileStore(cfg.ModelsDir)
	registry, problems := service.LoadRegistry(ctx, store)
	for name, problem := range problems {
		logger.Warn("artifact not loaded", "artifact", name, "error", problem)
	}
	engine := service.NewEngine(registry)
	logger.Info("models loaded", "models", engine.Loaded())

	// Wire infrastructure adapters.
	var publisher port.EventPublisher
	if brokers := pkgkafka.ParseBrokers(cfg.KafkaBrokers); len(brokers) > 0 {
		kafkaTLS, err := cfg.KafkaTLS()
		if err != nil {
			logger.Error("failed to load kafka TLS config", "error", err)
			os.Exit(1)
		}
		producer := pkgkafka.NewProducer(pkgkafka.Config{Brokers: brokers, ClientID: serviceName, TLS: kafkaTLS})
		defer producer.Close()
		publisher = kafka.NewPublisher(producer, cfg.KafkaTopic, logger)
		logger.Info("publishing events to kafka", "brokers", brokers, "topic", cfg.KafkaTopic, "tls", kafkaTLS != nil)
	} else {
		publisher = messaging.NewLogPublisher(logger)
	}

	// Wire use cases.
	predictNDVI := usecase.NewPredictNDVI(engine, publisher, logger)
	predictChange := usecase.NewPredictChange(engine, publisher, logger)
	predictRisk := usecase.NewPredictRisk(engine, publisher, logger)
	predictAll := usecase.NewPredictAll(engine, publisher, logger)
	getMetrics := usecase.NewGetModelMetrics(store)

	// HTTP server.
	handlers := rest.Handlers{
		Health:     rest.NewHealthHandler(engine.Loaded, len(feature.ModelNames()), logger),
		Prediction: rest.NewPredictionHandler(predictNDVI, predictChange, predictRisk, predictAll, logger),
		Models:     rest.NewModelsHandler(getMetrics, logger),
		Metrics:    metricsHandler,
	}
	if cfg.RateLimitRPS > 0 {
		handlers.RateLimit = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitRPS)
		logger.Info("prediction rate limit enabled", "rps", cfg.RateLimitRPS)
	}
	handler := rest.NewRouter(handlers, meterProvider.Meter(serviceName), logger)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	if cfg.TLSEnabled() {
		tlsCfg, err := tlsutil.ServerConfig(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			logger.Error("failed to load TLS certificate", "error", err)
			os.Exit(1)
		}
		httpServer.TLSConfig = tlsCfg
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress(), "tls", cfg.TLSEnabled())
		var err error
		if cfg.TLSEnabled() {
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("vegmld started",
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
	)

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	logger.Info("shutting down vegmld")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("vegmld stopped")
}
