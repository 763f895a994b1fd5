package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/foodonline/backend/config"
	"github.com/foodonline/backend/internal/api"
	"github.com/foodonline/backend/internal/database"
	"github.com/foodonline/backend/internal/middleware"
	"github.com/foodonline/backend/internal/service"
)

var _ service.MediaStore = (*config.S3Config)(nil)

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	http   *http.Server
	logger *slog.Logger
}

// New wires services and handlers. rdb and media are optional: without
// Redis registrations are not rate limited, without media image uploads are
// rejected.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, media service.MediaStore, logger *slog.Logger) *Server {
	if cfg.Env == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.Recovery(logger),
		middleware.RequestLogger(logger),
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.ErrorHandler(logger),
	)

	users := service.NewUserService(db)
	profiles := service.NewProfileService(db, media)
	auth := service.NewAuthService(users, cfg.JWTSecret, cfg.TokenTTL)

	checks := map[string]api.Checker{
		"database": func(ctx context.Context) error { return database.HealthCheck(ctx, db) },
	}

	var rateLimit gin.HandlerFunc
	if rdb != nil {
		limiter := middleware.NewRegistrationRateLimiter(rdb, cfg.RegistrationRateLimit, cfg.RegistrationRateWindow, logger)
		rateLimit = limiter.RateLimitMiddleware()
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	} else {
		logger.Warn("[Server] redis unavailable, registration is not rate limited")
	}
	if media == nil {
		logger.Warn("[Server] media storage not configured, image uploads are disabled")
	}

	api.SetupRoutes(router,
		api.NewAccountsHandler(users, rateLimit, logger),
		api.NewAdminHandler(auth, users, profiles, logger),
		checks,
	)

	return &Server{
		cfg:    cfg,
		router: router,
		logger: logger,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Router exposes the handler for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("[Server] listening", slog.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
