package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"caribbeanhomehub/server/config"
	"caribbeanhomehub/server/internal/api"
	"caribbeanhomehub/server/internal/auth"
	"caribbeanhomehub/server/internal/cache"
	"caribbeanhomehub/server/internal/database"
	"caribbeanhomehub/server/internal/payments"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	if cfg.Admin.Password == "" {
		logger.Fatal("ADMIN_PASSWORD must be set")
	}
	if cfg.Admin.JWTSecret == "" {
		logger.Fatal("JWT_SECRET must be set")
	}

	dbPath := cfg.Database.Path
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		logger.WithError(err).Fatal("Failed to create database directory")
	}
	logger.Infof("Using database at: %s", dbPath)

	db, err := database.NewDatabase(dbPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	var listingCache *cache.ListingCache
	if cfg.Redis.Addr != "" {
		ttl := time.Duration(cfg.Redis.CacheTTLSeconds) * time.Second
		listingCache, err = cache.New(cfg.Redis.Addr, ttl, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to redis")
		}
		defer listingCache.Close()
		logger.Infof("Listings cache enabled via %s", cfg.Redis.Addr)
	}

	authService := auth.NewService(cfg.Admin.JWTSecret, cfg.Admin.Username, cfg.Admin.Password)
	processor := payments.NewSimulatedProcessor()

	handler := api.NewHandler(db, cfg, authService, processor, listingCache, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, handler, authService)

	logger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
