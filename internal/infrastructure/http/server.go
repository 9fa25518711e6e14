package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	handlers "github.com/wekeepgrowing/trendloop-checkout/internal/adapter/handler/http"
	"github.com/wekeepgrowing/trendloop-checkout/internal/config"
	"github.com/wekeepgrowing/trendloop-checkout/internal/domain/provider"
	"github.com/wekeepgrowing/trendloop-checkout/internal/infrastructure/metrics"
	"github.com/wekeepgrowing/trendloop-checkout/internal/middleware/rawbody"
	"github.com/wekeepgrowing/trendloop-checkout/internal/usecase"
	"github.com/wekeepgrowing/trendloop-checkout/pkg/logger"
	"github.com/wekeepgrowing/trendloop-checkout/pkg/messaging"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the relay is built from. Publisher may be nil.
type Dependencies struct {
	Billing   provider.BillingProvider
	Verifier  provider.EventVerifier
	Publisher messaging.Publisher
	Metrics   *metrics.Metrics
}

type Server struct {
	config *config.Config
	logger *zap.Logger
	echo   *echo.Echo
	deps   Dependencies
}

func NewServer(cfg *config.Config, log *zap.Logger, deps Dependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewRequestValidator()
	logger.WithEchoLogger(e, log)

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.New().String() },
	}))
	e.Use(logger.NewEchoRequestLogger(log))
	if deps.Metrics != nil {
		e.Use(deps.Metrics.Middleware())
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Service.CORSAllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			handlers.IdempotencyKeyHeader,
		},
	}))

	s := &Server{
		config: cfg,
		logger: log,
		echo:   e,
		deps:   deps,
	}
	s.setupRoutes()
	return s
}

// Start blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) Start() error {
	addr := s.config.Server.HTTP.Addr()
	s.logger.Info("Starting HTTP server",
		zap.String("address", addr),
		zap.String("environment", s.config.Service.Environment))

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP lets the server be driven by httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	// Initialize use cases
	checkoutUseCase := usecase.NewCheckoutUseCase(s.deps.Billing, s.config.Service.ClientURL, s.deps.Metrics, s.logger)
	priceUseCase := usecase.NewPriceUseCase(s.deps.Billing, s.deps.Metrics, s.logger)

	var webhookOpts []usecase.WebhookOption
	if s.deps.Publisher != nil {
		webhookOpts = append(webhookOpts, usecase.WithEventPublisher(s.deps.Publisher, s.config.Events.Channel))
	}
	webhookUseCase := usecase.NewWebhookUseCase(s.deps.Verifier, s.deps.Metrics, s.logger.Named("webhook"), webhookOpts...)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	checkoutHandler := handlers.NewCheckoutHandler(checkoutUseCase, s.logger)
	priceHandler := handlers.NewPriceHandler(priceUseCase, s.logger)
	webhookHandler := handlers.NewWebhookHandler(webhookUseCase, s.logger)

	s.echo.GET("/health", healthHandler.Health)
	s.echo.POST("/create-checkout-session", checkoutHandler.CreateCheckoutSession)

	// Admin/debug catalog routes
	if s.config.Service.EnableAdminEndpoints {
		s.echo.POST("/create-price", priceHandler.CreatePrice)
		s.echo.GET("/prices", priceHandler.ListPrices)
	} else {
		s.logger.Info("Admin endpoints disabled", zap.Strings("routes", []string{"/create-price", "/prices"}))
	}

	// The webhook needs the body byte-for-byte, so it is captured before
	// anything else touches it.
	s.echo.POST("/webhook", webhookHandler.HandleWebhook, rawbody.New(rawbody.Config{
		Limit:        s.config.Webhook.MaxBodyBytes,
		ErrorHandler: webhookHandler.BodyError,
	}))

	if s.deps.Metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.deps.Metrics.Handler()))
	}
}
