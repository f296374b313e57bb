package v1

import (
	"go-contact-relay/config"
	_ "go-contact-relay/docs" // Swagger spec registration
	"go-contact-relay/internal/delivery/http/middleware"
	"go-contact-relay/internal/domain"
	"go-contact-relay/pkg/logger"
	"go-contact-relay/pkg/ratelimit"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ContactUC      domain.ContactUsecase
	MailConfigUC   domain.MailConfigUsecase
	ContactLimiter ratelimit.Limiter
	Config         *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Only listed proxies may set the client address through X-Forwarded-For
	if err := r.SetTrustedProxies(deps.Config.TrustedProxies); err != nil {
		logger.Log.Warn("Invalid TRUSTED_PROXIES, trusting none", "error", err)
		_ = r.SetTrustedProxies(nil)
	}

	// Global Middlewares
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(gin.Logger()) // Use standard Gin logger
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler(deps.Config.IsDevelopment()))

	api := r.Group("/api")

	contactLimit := middleware.RateLimitMiddleware(middleware.ContactRateLimitConfig(deps.ContactLimiter))

	NewContactHandler(api, deps.ContactUC, contactLimit, middleware.BodyLimit(middleware.DefaultBodyLimit))
	NewSystemHandler(api, deps.MailConfigUC)

	// Swagger
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.NoRoute(middleware.NotFound)

	return r
}
