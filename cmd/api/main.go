package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go-contact-relay/config"
	v1 "go-contact-relay/internal/delivery/http/v1"
	"go-contact-relay/internal/usecase"
	"go-contact-relay/pkg/email"
	"go-contact-relay/pkg/logger"
	"go-contact-relay/pkg/ratelimit"
	"go-contact-relay/pkg/redis"
	"go-contact-relay/pkg/validation"
)

// @title           Contact Relay API
// @version         1.0
// @description     Validates contact form submissions and relays them by email.
// @host            localhost:3000
// @BasePath        /api
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting contact relay", "port", cfg.Port, "env", cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Setup Email Transport
	transport := email.NewSMTPTransport(email.SMTPConfig{
		Host:     cfg.EmailHost,
		Port:     cfg.EmailPort,
		Username: cfg.EmailUser,
		Password: cfg.EmailPass,
		Secure:   cfg.EmailSecure,
		Timeout:  cfg.EmailTimeout,
	})
	if transport.IsConfigured() && cfg.EmailUser != "" {
		logger.Log.Info("Email service configured", "host", cfg.EmailHost)
	} else {
		logger.Log.Warn("Email service not fully configured - contact form will fail to send")
	}

	// 4. Setup Rate Limiter (Redis when available, in-memory otherwise)
	policy := ratelimit.Policy{Limit: cfg.RateLimitMaxRequests, Window: cfg.RateLimitWindow}
	memLimiter := ratelimit.NewSlidingWindow(policy)
	memLimiter.StartJanitor(ctx, 5*time.Minute)

	var limiter ratelimit.Limiter = memLimiter
	redisClient, err := redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
	switch {
	case err == nil:
		defer redisClient.Close()
		limiter = ratelimit.NewRedisSlidingWindow(redisClient, policy, "rl:contact:", memLimiter)
		logger.Log.Info("Rate limiting backed by Redis")
	case errors.Is(err, redis.ErrNotConfigured):
		logger.Log.Info("Rate limiting in memory")
	default:
		logger.Log.Warn("Redis unavailable, rate limiting in memory", "error", err)
	}

	// 5. Setup UseCases
	contactUC := usecase.NewContactUsecase(transport, validation.New(), usecase.ContactConfig{
		SenderName:    cfg.SenderName,
		SenderAddress: cfg.EmailUser,
	})
	mailConfigUC := usecase.NewMailConfigUsecase(transport)

	// 6. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC:      contactUC,
		MailConfigUC:   mailConfigUC,
		ContactLimiter: limiter,
		Config:         cfg,
	})

	// 7. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
