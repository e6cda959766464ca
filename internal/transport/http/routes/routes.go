package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/FrancoTaaber/photos-api/internal/core/domain"
	"github.com/FrancoTaaber/photos-api/internal/infra/config"
	"github.com/FrancoTaaber/photos-api/internal/infra/security"
	"github.com/FrancoTaaber/photos-api/internal/transport/http/handlers"
	"github.com/FrancoTaaber/photos-api/internal/transport/http/middleware"
	"github.com/FrancoTaaber/photos-api/internal/usecase"
)

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config   *config.AppConfig
	Logger   *zap.Logger
	Metrics  *middleware.HTTPMetrics
	Photos   *usecase.PhotoService
	Tokens   *security.TokenManager
	Database DatabaseChecker
	Cache    CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))

	if len(deps.Config.CORS.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))
	}

	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	authMiddleware := middleware.RequireAuth(deps.Tokens)

	healthOptions := make([]handlers.HealthOption, 0, 2)

	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}

	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}

	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		photoHandler := handlers.NewPhotoHandler(deps.Photos)

		photoGroup := api.Group("/photos")
		photoGroup.GET("", photoHandler.ListPhotos)
		photoGroup.POST("", authMiddleware, photoHandler.AddPhoto)
		photoGroup.PUT("/:photo_id", authMiddleware, photoHandler.EditPhoto)
		photoGroup.DELETE("/:photo_id", authMiddleware, middleware.RequireRole(domain.RoleAdmin), photoHandler.DeletePhoto)
	}

	return r
}
