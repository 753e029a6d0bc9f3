package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mealmajor/mealmajor/backend/config"
	"github.com/mealmajor/mealmajor/backend/internal/api"
	"github.com/mealmajor/mealmajor/backend/internal/cache"
	"github.com/mealmajor/mealmajor/backend/internal/events"
	"github.com/mealmajor/mealmajor/backend/internal/middleware"
	"github.com/mealmajor/mealmajor/backend/internal/router"
	"github.com/mealmajor/mealmajor/backend/internal/service"
)

// Version is reported by the health endpoint
const Version = "v1.0.0"

// Dependencies are the optional backing services. A nil Redis disables rate
// limiting and the option cache; a nil Publisher disables recipe events.
type Dependencies struct {
	Redis     redis.Cmdable
	Publisher events.Publisher
}

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// New wires the services and handlers over db and returns a server bound to
// the configured address
func New(cfg *config.Config, db *gorm.DB, deps Dependencies, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	var (
		optionCache  service.OptionCache
		counterStore middleware.CounterStore
	)
	if deps.Redis != nil {
		optionCache = cache.NewRedisCache(deps.Redis, cache.KeyPrefix)
		counterStore = middleware.NewRedisCounterStore(deps.Redis)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL)
	profileService := service.NewProfileService(db)
	recipeService := service.NewRecipeService(db, publisher, logger)
	optionService := service.NewOptionService(db, optionCache, cfg.OptionsCacheTTL, logger)

	handlers := router.Handlers{
		Health:  api.NewHealthHandler(db, Version),
		Auth:    api.NewAuthHandler(authService, logger),
		Options: api.NewOptionHandler(optionService, logger),
		Profile: api.NewProfileHandler(profileService, logger),
		Recipes: api.NewRecipeHandler(
			recipeService,
			middleware.NewRecipeCreationRateLimiter(counterStore, cfg.RecipeCreateLimit, logger),
			middleware.NewRecipeModificationRateLimiter(counterStore, cfg.RecipeModifyLimit, logger),
			logger,
		),
	}

	engine := router.SetupRouter(handlers, authService, cfg.CORSAllowedOrigins, logger)

	return &Server{
		router: engine,
		http: &http.Server{
			Addr:              cfg.ServerAddr(),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Stop is called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
