package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/leozw/domain-intel/internal/api/handlers"
	"github.com/leozw/domain-intel/internal/api/middleware"
	"github.com/leozw/domain-intel/internal/config"
	"github.com/leozw/domain-intel/internal/metrics"
)

type Server struct {
	Config  *config.Config
	Router  *gin.Engine
	handler *handlers.Handler
	metrics *metrics.Collector
	logger  *zap.Logger
}

func NewServer(cfg *config.Config, handler *handlers.Handler, m *metrics.Collector, logger *zap.Logger) *Server {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger, m))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())
	router.Use(middleware.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window).Middleware())

	server := &Server{
		Config:  cfg,
		Router:  router,
		handler: handler,
		metrics: m,
		logger:  logger,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	s.Router.GET("/health", s.handler.Health)
	s.Router.GET("/metrics", s.handler.Metrics())

	api := s.Router.Group("/api")
	if s.Config.Auth.JWTSecret != "" {
		api.Use(middleware.AuthRequired(s.Config.Auth.JWTSecret))
	}
	{
		api.POST("/analyze", s.handler.AnalyzeDomain)
		api.POST("/bulk-analyze", s.handler.BulkAnalyze)
	}

	s.Router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
	})
}
