// Package routes handles the setup and configuration of API routes
package routes

import (
	"fmt"

	_ "authcore/docs" // Import swagger docs
	"authcore/internal/api/handlers"
	"authcore/internal/api/middleware"
	"authcore/internal/auth"
	"authcore/internal/config"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Security is the login service together with bearer token resolution
type Security interface {
	handlers.SecurityService
	middleware.Authenticator
}

// Services are the collaborators the handlers run on
type Services struct {
	DB       handlers.Pinger
	Security Security
	Accounts handlers.AccountService
}

// SetupRoutes configures all API routes and their handlers. Forwarding
// headers are only honoured from cfg.API.TrustedProxies.
func SetupRoutes(cfg *config.Config, svc Services, logger *zap.Logger) (*gin.Engine, error) {
	r := gin.New()

	var proxies []string
	if len(cfg.API.TrustedProxies) > 0 {
		proxies = cfg.API.TrustedProxies
	}
	if err := r.SetTrustedProxies(proxies); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	r.Use(middleware.RequestID(), middleware.Logger(logger), middleware.Recovery(logger))

	// Routes without rate limiting
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	healthHandler := handlers.NewHealthHandler(svc.DB)
	securityHandler := handlers.NewSecurityHandler(svc.Security)
	userHandler := handlers.NewUserHandler(svc.Accounts)

	authMiddleware := middleware.NewAuthMiddleware(svc.Security)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit)

	api := r.Group("/api")
	{
		api.GET("/ping", healthHandler.Ping)
		api.GET("/health-check", healthHandler.HealthCheck)

		public := api.Group("")
		public.Use(rateLimiter.Middleware())
		{
			public.POST("/signup", securityHandler.SignUp)
			public.POST("/login", securityHandler.Login)
			public.POST("/login/thirdparty", securityHandler.ThirdPartyLogin)
			public.POST("/social-login", securityHandler.SSOLogin)
		}

		private := api.Group("")
		private.Use(authMiddleware.AuthRequired())
		{
			private.POST("/token/refresh", securityHandler.RefreshToken)
			private.GET("/user/profile", userHandler.GetProfile)
			private.PUT("/user/profile", userHandler.UpdateProfile)
			private.DELETE("/user/:id", authMiddleware.RequireRight(auth.RightUserDelete), userHandler.DeleteUser)
		}
	}

	return r, nil
}
