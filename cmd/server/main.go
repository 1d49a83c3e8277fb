package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wso2/data-request-api/internal/catalog"
	"github.com/wso2/data-request-api/internal/system/config"
	"github.com/wso2/data-request-api/internal/system/database"
	"github.com/wso2/data-request-api/internal/system/database/provider"
	"github.com/wso2/data-request-api/internal/system/log"
	"github.com/wso2/data-request-api/internal/system/middleware"
)

// Version information (set by build script)
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Priority: CONFIG_PATH env var > repository/conf/deployment.yaml > cmd/server/repository/conf/deployment.yaml
	configPath := os.Getenv("CONFIG_PATH")

	cfg, err := config.Load(configPath)
	if err != nil {
		log.GetLogger().Fatal("Failed to load configuration", log.Error(err))
	}

	if err := log.Init(cfg.Logging.Level, cfg.Logging.Format, os.Stdout); err != nil {
		log.GetLogger().Fatal("Failed to initialize logger", log.Error(err))
	}
	logger := log.GetLogger()

	logger.Info("Starting Data Request API Server...",
		log.String("version", version),
		log.String("build_date", buildDate))

	db, err := database.Initialize(&cfg.Database.DataRequest)
	if err != nil {
		logger.Fatal("Failed to initialize database", log.Error(err))
	}

	provider.InitDBProvider(db)
	dbClient, err := provider.GetDBProvider().GetDataRequestDBClient()
	if err != nil {
		logger.Fatal("Failed to create database client", log.Error(err))
	}

	catalogClient := catalog.NewClient(&cfg.Catalog)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.CorrelationIDMiddleware(),
		middleware.RequestLogger(),
		middleware.CORSMiddleware(cfg.CORS),
	)
	api := router.Group("/api/v1", middleware.PrincipalMiddleware(catalog.PrincipalLookup(catalogClient)))

	registerServices(router, api, dbClient, db, catalogClient, cfg)

	serverAddr := cfg.Server.GetServerAddress()
	server := &http.Server{
		Addr:           serverAddr,
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	go func() {
		logger.Info("Starting HTTP server...", log.String("address", serverAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", log.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", log.Error(err))
	}

	if err := unregisterServices(provider.GetDBProviderCloser()); err != nil {
		logger.Error("Failed to unregister services", log.Error(err))
	}

	logger.Info("Server exited gracefully")
}
