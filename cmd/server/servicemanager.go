package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wso2/data-request-api/internal/aggregation"
	"github.com/wso2/data-request-api/internal/authz"
	"github.com/wso2/data-request-api/internal/catalog"
	"github.com/wso2/data-request-api/internal/counters"
	"github.com/wso2/data-request-api/internal/datarequest"
	"github.com/wso2/data-request-api/internal/maintainer"
	"github.com/wso2/data-request-api/internal/notification"
	"github.com/wso2/data-request-api/internal/system/config"
	"github.com/wso2/data-request-api/internal/system/database"
	"github.com/wso2/data-request-api/internal/system/database/provider"
	"github.com/wso2/data-request-api/internal/system/log"
	"github.com/wso2/data-request-api/internal/system/stores"
)

// registerServices wires every module onto the API group and mounts the health check on the root router.
func registerServices(
	router *gin.Engine,
	api *gin.RouterGroup,
	dbClient provider.DBClientInterface,
	db *database.DB,
	cat catalog.Catalog,
	cfg *config.Config,
) {
	logger := log.GetLogger()

	registry := stores.NewStoreRegistry(
		dbClient,
		datarequest.NewDataRequestStore(dbClient),
		counters.NewCountersStore(dbClient),
		notification.NewNotificationStore(dbClient),
	)
	checker := authz.NewChecker(cat)
	resolver := maintainer.NewResolver(cat, cfg.Catalog.HDXMode)

	datarequest.Initialize(api, registry, cat, resolver, checker,
		datarequest.ServiceOptions{AllowPublicView: cfg.Request.AllowPublicView})
	logger.Info("DataRequest module initialized", log.Bool("hdx_mode", cfg.Catalog.HDXMode))

	counters.Initialize(api, registry, cat, checker)
	logger.Info("Counters module initialized")

	notification.Initialize(api, registry)
	logger.Info("Notification module initialized")

	aggregation.Initialize(api, registry, cat, resolver, checker)
	logger.Info("Aggregation module initialized")

	router.GET("/health", healthCheck(db))
}

func healthCheck(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			log.GetLogger().WithContext(ctx).Warn("Health check failed", log.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}

// unregisterServices releases the resources the modules share during shutdown.
func unregisterServices(closer provider.DBProviderCloser) error {
	if err := closer.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	log.GetLogger().Debug("Services unregistered")
	return nil
}
