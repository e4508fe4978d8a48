package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/hoangit2k2/lovepink/configs"
	"github.com/hoangit2k2/lovepink/internal/application/services"
	"github.com/hoangit2k2/lovepink/internal/core/ports"
	"github.com/hoangit2k2/lovepink/internal/infrastructure/db"
	"github.com/hoangit2k2/lovepink/internal/infrastructure/email"
	"github.com/hoangit2k2/lovepink/internal/infrastructure/files"
	"github.com/hoangit2k2/lovepink/internal/infrastructure/health"
	"github.com/hoangit2k2/lovepink/internal/infrastructure/httpserver"
	"github.com/hoangit2k2/lovepink/internal/infrastructure/redis"
	"github.com/hoangit2k2/lovepink/internal/infrastructure/repositories"
	"github.com/hoangit2k2/lovepink/internal/infrastructure/tokenstore"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting account security service...")

	// Initialize database (apply pool settings from config)
	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	// Initialize Redis client
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	logger.Info("Connected to Redis successfully")

	// Run migrations
	if err := database.Migrate("./migrations"); err != nil {
		logger.Warn("Failed to run migrations:", err)
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// Token store backend: redis for multi-replica deployments, memory for
	// single-process ones.
	var tokenStore ports.TokenStore
	if cfg.Token.Store == "memory" {
		memStore := tokenstore.NewMemoryStore(logger)
		memStore.StartJanitor(rootCtx, time.Minute)
		tokenStore = memStore
	} else {
		tokenStore = tokenstore.NewRedisStore(redisClient, logger)
	}

	// Repositories
	accountRepo := repositories.NewAccountRepository(database, logger)
	attemptRepo := repositories.NewAttemptRedisRepository(redisClient)
	blacklistRepo := repositories.NewBlacklistRedisRepository(redisClient)

	// Collaborators
	emailConfig := &email.EmailConfig{
		SendGridAPIKey: cfg.Email.SendGridAPIKey,
		FromEmail:      cfg.Email.FromEmail,
		FromName:       cfg.Email.FromName,
		CompanyName:    cfg.Email.CompanyName,
	}
	mailSender, err := email.NewEmailService(emailConfig, logger)
	if err != nil {
		logger.Fatal("Failed to initialize email service:", err)
	}

	fileStore, err := files.NewLocalStore(cfg.Upload.Directory, logger)
	if err != nil {
		logger.Fatal("Failed to initialize file store:", err)
	}

	// Services
	tokenService := services.NewTokenService(tokenStore, mailSender, services.TokenServiceConfig{
		CodePrefix:      cfg.Token.CodePrefix,
		CodeLength:      cfg.Token.CodeLength,
		CodeTTL:         cfg.Token.CodeTTL,
		GrantTTL:        cfg.Token.GrantTTL,
		DeliveryTimeout: cfg.Token.DeliveryTimeout,
	}, logger)

	limiter := services.NewAttemptLimiterService(attemptRepo, &services.AttemptLimiterConfig{
		AttemptsPerWindow: cfg.RateLimit.AttemptsPerWindow,
		Window:            cfg.RateLimit.Window,
		KeyPrefix:         cfg.RateLimit.KeyPrefix,
	}, logger)

	securityService := services.NewSecurityService(accountRepo, tokenService, fileStore, limiter, logger)
	authService := services.NewAuthService(accountRepo, blacklistRepo, &cfg.JWT, logger)

	hcSlice := []ports.HealthChecker{health.NewDBHealthChecker(database), health.NewRedisHealthChecker(redisClient)}

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		TLSCertFile:  cfg.Server.TLSCertFile,
		TLSKeyFile:   cfg.Server.TLSKeyFile,
		CookieTTL:    cfg.Token.GrantTTL,
	}

	deps := httpserver.ServerDeps{
		SecurityService: securityService,
		AuthService:     authService,
		HealthCheckers:  hcSlice,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
