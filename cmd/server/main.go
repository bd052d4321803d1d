package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "gitactdash/docs"
	"gitactdash/internal/application/service"
	"gitactdash/internal/config"
	"gitactdash/internal/database"
	"gitactdash/internal/domain/storage"
	"gitactdash/internal/infrastructure/encryption"
	infraGitHub "gitactdash/internal/infrastructure/github"
	"gitactdash/internal/infrastructure/oauth"
	"gitactdash/internal/infrastructure/persistence"
	"gitactdash/internal/infrastructure/session"
	"gitactdash/internal/logging"
	"gitactdash/internal/middleware"
	"gitactdash/internal/presentation/handlers"
)

// @title GitActDash API
// @version 1.0
// @description Dashboard of GitHub Actions workflows across personal and organization repositories

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5000
// @BasePath /api

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name github_token
// @description Session issued by /api/auth/callback

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.Log)
	ctx := logging.WithLogger(context.Background(), logrus.NewEntry(logger))

	// Client storage: PostgreSQL when a DSN is configured, memory otherwise
	bridge, pinger, storageKind, closeStorage := initStorage(ctx, logger, cfg)
	defer closeStorage()

	// Session sealing and signing
	sealer, err := encryption.NewEncryptionService(cfg.Session.EncryptionKey)
	if err != nil {
		logger.Fatalf("Failed to initialize session encryption: %v", err)
	}
	sessions, err := session.NewManager(cfg.Session.SigningSecret, cfg.Session.TTL, sealer)
	if err != nil {
		logger.Fatalf("Failed to initialize session manager: %v", err)
	}

	// External service clients
	tokenClient := oauth.NewClient(cfg.GitHub.TokenURL)
	gitHubClients, err := infraGitHub.NewClientFactory(cfg.GitHub.APIBaseURL)
	if err != nil {
		logger.Fatalf("Failed to initialize GitHub client: %v", err)
	}

	// Application services
	authService := service.NewAuthService(cfg.GitHub, tokenClient, sessions)
	preferencesService := service.NewPreferencesService(service.NewLocalStorageService(bridge))

	// HTTP handlers
	routes := handlers.Routes{
		Health:      handlers.NewHealthHandler(pinger, storageKind),
		Auth:        handlers.NewAuthHandler(authService, cfg),
		Repository:  handlers.NewRepositoryHandler(gitHubClients),
		Preferences: handlers.NewPreferencesHandler(preferencesService),
		RequireAuth: middleware.NewAuthMiddleware(authService, cfg.Session.TokenCookieName).RequireAuth(),
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(logging.Middleware(logger))
	router.Use(gin.Recovery())
	if len(cfg.Server.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Server.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{logging.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	router.Use(middleware.ClientIdentity(cfg.Session.ClientCookieName, cfg.Server.UseHTTPS))

	handlers.RegisterRoutes(router, routes)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"address": cfg.GetServerAddress(),
			"storage": storageKind,
		}).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

func initStorage(ctx context.Context, logger *logrus.Logger, cfg *config.Config) (storage.Bridge, handlers.Pinger, string, func()) {
	if cfg.Database.DSN == "" {
		logger.Warn("DB_DSN is not set; preferences are kept in memory and lost on restart")
		return persistence.NewMemoryStorage(), nil, "memory", func() {}
	}

	db, err := database.NewConnection(ctx, &cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		logger.Fatalf("Failed to prepare database schema: %v", err)
	}

	return persistence.NewClientStorage(db), db, "postgres", func() {
		if err := db.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close database")
		}
	}
}
