package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mealmajor/mealmajor/backend/internal/api"
	"github.com/mealmajor/mealmajor/backend/internal/middleware"
)

// Handlers groups the API handlers mounted by SetupRouter
type Handlers struct {
	Health  *api.HealthHandler
	Auth    *api.AuthHandler
	Options *api.OptionHandler
	Profile *api.ProfileHandler
	Recipes *api.RecipeHandler
}

// SetupRouter configures the application routes
func SetupRouter(
	handlers Handlers,
	tokenValidator middleware.TokenValidator,
	allowedOrigins []string,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
		middleware.CORS(allowedOrigins),
	)
	router.NoRoute(middleware.NotFound())

	router.GET("/health", handlers.Health.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")

	// Public routes
	handlers.Auth.RegisterRoutes(v1)
	handlers.Options.RegisterRoutes(v1)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(tokenValidator))
	handlers.Profile.RegisterRoutes(protected)
	handlers.Recipes.RegisterRoutes(protected)

	return router
}
