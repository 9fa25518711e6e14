package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/wekeepgrowing/trendloop-checkout/internal/config"
	"github.com/wekeepgrowing/trendloop-checkout/internal/domain/provider"
	httpServer "github.com/wekeepgrowing/trendloop-checkout/internal/infrastructure/http"
	"github.com/wekeepgrowing/trendloop-checkout/internal/infrastructure/metrics"
	providerFactory "github.com/wekeepgrowing/trendloop-checkout/internal/infrastructure/provider"
	"github.com/wekeepgrowing/trendloop-checkout/pkg/logger"
	"github.com/wekeepgrowing/trendloop-checkout/pkg/messaging"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewZapLogger(cfg.LoggerConfig())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger = zapLogger.With(
		zap.String("service", cfg.Service.Name),
		zap.String("version", cfg.Service.Version))

	// Initialize billing provider
	factory := providerFactory.NewFactory(cfg, zapLogger)
	billing, err := factory.GetProvider(provider.ProviderTypeStripe)
	if err != nil {
		zapLogger.Fatal("Failed to initialize billing provider", zap.Error(err))
	}
	verifier, err := factory.GetEventVerifier(provider.ProviderTypeStripe)
	if err != nil {
		zapLogger.Fatal("Failed to initialize webhook verifier", zap.Error(err))
	}

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(registry)

	deps := httpServer.Dependencies{
		Billing:  billing,
		Verifier: verifier,
		Metrics:  m,
	}

	// Optional event hook
	if cfg.Redis.Enabled() {
		redisClient, err := messaging.NewRedisClient(messaging.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()

		deps.Publisher = redisClient
		zapLogger.Info("Publishing verified webhook events",
			zap.String("redis_addr", cfg.Redis.Addr),
			zap.String("channel", cfg.Events.Channel))
	}

	httpSrv := httpServer.NewServer(cfg, zapLogger, deps)

	// Start server
	go func() {
		if err := httpSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.HTTP.ShutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	zapLogger.Info("Server shut down successfully")
}
