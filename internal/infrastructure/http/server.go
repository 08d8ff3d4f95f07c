package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	handlers "github.com/fitcal/fitcal-backend/internal/adapter/handler/http"
	"github.com/fitcal/fitcal-backend/internal/config"
	"github.com/fitcal/fitcal-backend/internal/infrastructure/database"
	"github.com/fitcal/fitcal-backend/internal/metrics"
	"github.com/fitcal/fitcal-backend/internal/middleware/auth"
	"github.com/fitcal/fitcal-backend/internal/usecase"
)

// webhookBodyLimit caps webhook payloads; Stripe events are far smaller.
const webhookBodyLimit = "1M"

type Server struct {
	config    *config.Config
	logger    *zap.Logger
	echo      *echo.Echo
	repos     *database.Repositories
	notifier  usecase.Notifier
	collector *metrics.Collector
	registry  *prometheus.Registry
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	repos *database.Repositories,
	notifier usecase.Notifier,
	collector *metrics.Collector,
	registry *prometheus.Registry,
) *Server {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Recover())
	if cfg.Service.ClientURL != "" {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: []string{cfg.Service.ClientURL},
			AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
		}))
	}

	return &Server{
		config:    cfg,
		logger:    logger,
		echo:      e,
		repos:     repos,
		notifier:  notifier,
		collector: collector,
		registry:  registry,
	}
}

func (s *Server) Start() error {
	// Setup routes
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	// Prometheus scrape endpoint
	s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler(s.registry)))

	// Payment-event synchronization engine
	resolver := usecase.NewIdentityResolver(s.repos.User, s.logger)
	reconciliation := usecase.NewReconciliation(
		s.repos.User,
		s.repos.MembershipSubscription,
		s.repos.Membership,
		resolver,
		s.logger,
		s.config.Stripe.DashboardBaseURL,
	)
	processor := usecase.NewWebhookProcessor(
		s.repos.ProcessedEvent,
		reconciliation,
		s.notifier,
		s.collector,
		s.logger,
		s.config.Service.Environment,
	)

	webhookHandler := handlers.NewWebhookHandler(
		s.logger,
		processor,
		handlers.NewSignatureVerifier(s.config.Stripe.WebhookSecret),
		handlers.NewSignatureVerifier(s.config.Stripe.ConnectWebhookSecret),
		s.collector,
	)

	// Webhook routes authenticate by signature, not by session.
	webhooks := s.echo.Group("/api/stripe", middleware.BodyLimit(webhookBodyLimit))
	webhooks.POST("/webhook", webhookHandler.HandlePlatformWebhook)
	webhooks.POST("/connect/webhook", webhookHandler.HandleConnectWebhook)

	// Internal admin routes (JWT required)
	processedEventsHandler := handlers.NewProcessedEventsHandler(s.logger, s.repos.ProcessedEvent)

	internal := s.echo.Group("/api/v1/internal", auth.JWTMiddleware(auth.JWTConfig{
		Secret: s.config.JWT.Secret,
		Logger: s.logger,
	}))
	internal.GET("/processed-events", processedEventsHandler.List)
	internal.DELETE("/processed-events", processedEventsHandler.Prune)
}
