package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"futspot/internal/auth"
	"futspot/internal/cache"
	"futspot/internal/config"
	"futspot/internal/database"
	"futspot/internal/handlers"
	"futspot/internal/logger"
	"futspot/internal/messaging"
	"futspot/internal/metrics"
	"futspot/internal/middleware"
	"futspot/internal/repository"
	"futspot/internal/schedule"
	"futspot/internal/search"
	"futspot/internal/service"
	"futspot/internal/storage"

	"github.com/gin-gonic/gin"
)

// Server представляет HTTP сервер API
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	cache    *cache.AvailabilityCache
	index    *search.ElasticsearchClient
	metrics  *metrics.Metrics
	tokens   *auth.TokenManager
	services *service.Services
	http     *http.Server
}

// NewServer подключает инфраструктуру и собирает сервисы.
// Redis, Elasticsearch, S3 и NATS подключаются только если включены.
func NewServer(cfg *config.Config) (*Server, error) {
	gin.SetMode(cfg.GinMode)

	clock, err := schedule.NewSystemClock(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	s := &Server{
		config:  cfg,
		db:      db,
		metrics: metrics.New(),
		tokens:  auth.NewTokenManager(cfg.Auth),
	}

	deps := service.Deps{
		Store:   repository.NewRepositories(db),
		Clock:   clock,
		Tokens:  s.tokens,
		Metrics: s.metrics,
	}

	if cfg.NATS.Enabled {
		nc, err := messaging.NewNATSClient(cfg.NATS)
		if err != nil {
			s.Cleanup()
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		s.nats = nc
		deps.Publisher = nc
	}

	// Redis и Elasticsearch необязательны: при ошибке работаем без них
	if cfg.Cache.Enabled {
		if c, err := cache.NewAvailabilityCache(cfg.Cache); err != nil {
			logger.Get().Warn("Availability cache disabled", "error", err)
		} else {
			s.cache = c
			deps.Cache = c
		}
	}
	if cfg.Elasticsearch.Enabled {
		if es, err := search.NewElasticsearchClient(cfg.Elasticsearch); err != nil {
			logger.Get().Warn("Venue search index disabled", "error", err)
		} else {
			s.index = es
			deps.Index = es
		}
	}
	if cfg.Storage.Enabled {
		deps.Photos = storage.NewS3Store(cfg.Storage)
	}

	s.services = service.NewServices(deps)
	s.setupRouter()

	s.http = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.RequestTimeout(),
		WriteTimeout:      cfg.RequestTimeout(),
		IdleTimeout:       2 * time.Minute,
	}
	return s, nil
}

func (s *Server) setupRouter() {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(s.config.CORSOrigin))
	router.Use(middleware.Metrics(s.metrics))

	h := handlers.NewHandlers(s.services)
	api := router.Group("/api")
	h.RegisterRoutes(api, s.tokens)

	router.GET("/health", s.healthCheck)
	api.GET("/health", s.healthCheck)
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	api.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	s.router = router
}

// healthCheck обрабатывает health check запросы
func (s *Server) healthCheck(c *gin.Context) {
	db := s.db.HealthCheck(c.Request.Context())

	status := http.StatusOK
	if db.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	resp := gin.H{
		"status":   db.Status,
		"service":  "futspot-api",
		"database": db,
	}
	if s.index != nil {
		if err := s.index.HealthCheck(c.Request.Context()); err != nil {
			resp["search"] = err.Error()
		} else {
			resp["search"] = "healthy"
		}
	}
	c.JSON(status, resp)
}

// Run запускает HTTP сервер и блокируется до его остановки
func (s *Server) Run() error {
	logger.Get().Info("Starting server", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown дожидается завершения активных запросов
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// GetRouter возвращает роутер для тестирования
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup закрывает соединения
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			logger.Get().Error("Error closing NATS connection", "error", err)
		}
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			logger.Get().Error("Error closing cache connection", "error", err)
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			logger.Get().Error("Error closing database connection", "error", err)
			return err
		}
	}
	return nil
}
