// File: internal/handler/http/router.go
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/TaK0JR/ABK-Review-Dashboard/internal/config"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/domain/models"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/handler/http/middleware"
	"github.com/TaK0JR/ABK-Review-Dashboard/internal/infrastructure/security"
)

// RouterDeps carries everything the router needs to wire routes.
type RouterDeps struct {
	Config      *config.Config
	Logger      *zap.Logger
	JWT         *security.JWTService
	Auth        *AuthHandler
	Connections *ConnectionHandler
	OAuth       *OAuthHandler
	Health      *HealthHandler
}

// NewRouter assembles the gin engine with the full middleware chain and
// route table.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config

	router := gin.New()
	router.Use(
		middleware.Recovery(deps.Logger),
		middleware.RequestLogger(deps.Logger),
		middleware.Metrics(),
		middleware.CORS(cfg.App.AllowedOrigin),
	)

	router.GET("/health", deps.Health.Health)
	router.GET("/ready", deps.Health.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	extractors := []middleware.CredentialExtractor{
		middleware.BearerExtractor,
		middleware.CookieExtractor(cfg.JWT.CookieName),
	}
	authn := middleware.Auth(deps.JWT, deps.Logger, extractors...)
	authnRedirect := middleware.AuthRedirect(deps.JWT, deps.Logger, cfg.App.LoginURL, extractors...)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			login := auth.Group("")
			if cfg.RateLimit.Enabled {
				limiter := middleware.NewRateLimiter(cfg.RateLimit.LoginPerMinute, cfg.RateLimit.Burst)
				login.Use(limiter.Middleware())
			}
			login.POST("/login", deps.Auth.Login)

			users := auth.Group("/users", authn, middleware.RequireAdmin())
			{
				users.GET("", deps.Auth.ListUsers)
				users.POST("", deps.Auth.CreateUser)
			}
		}

		connections := api.Group("/platform-connections", authn)
		{
			connections.GET("", deps.Connections.List)
			connections.POST("/:id/sync", deps.Connections.Sync)
			connections.POST("/:id/refresh-token", deps.Connections.RefreshToken)
			connections.DELETE("/:id", deps.Connections.Delete)
		}

		oauth := api.Group("/oauth", authnRedirect)
		{
			oauth.GET("/facebook", deps.OAuth.Initiate(models.ProviderFacebook))
			oauth.GET("/facebook/callback", deps.OAuth.Callback(models.ProviderFacebook))
			oauth.GET("/google/business", deps.OAuth.Initiate(models.ProviderGoogleBusiness))
			oauth.GET("/google/business/callback", deps.OAuth.Callback(models.ProviderGoogleBusiness))
			oauth.GET("/instagram", deps.OAuth.Initiate(models.ProviderInstagram))
			oauth.GET("/instagram/callback", deps.OAuth.Callback(models.ProviderInstagram))
		}
	}

	return router
}
