package api

import (
	"github.com/gin-gonic/gin"
	"github.com/leozw/clerk-user-sync/internal/api/handlers"
	"github.com/leozw/clerk-user-sync/internal/api/middleware"
	"github.com/leozw/clerk-user-sync/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Server struct {
	Config  *config.Config
	Router  *gin.Engine
	Handler *handlers.Handler
}

func NewServer(cfg *config.Config, handler *handlers.Handler, gatherer prometheus.Gatherer, logger *zap.Logger) *Server {
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(gin.Recovery())

	server := &Server{
		Config:  cfg,
		Router:  router,
		Handler: handler,
	}

	server.setupRoutes(gatherer)
	return server
}

func (s *Server) setupRoutes(gatherer prometheus.Gatherer) {
	// Health check
	s.Router.GET("/health", s.Handler.Health)
	s.Router.GET("/ready", s.Handler.Ready)
	s.Router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Provider webhooks
	limiter := rate.NewLimiter(rate.Limit(s.Config.RateLimit.RequestsPerSecond), s.Config.RateLimit.Burst)
	hooks := s.Router.Group("/webhook")
	hooks.Use(middleware.RateLimit(limiter))
	hooks.Use(middleware.BodyLimit(s.Config.Server.MaxBodyBytes))
	{
		hooks.POST("/clerk", s.Handler.ClerkWebhook)
	}
}
