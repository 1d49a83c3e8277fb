package notification

import (
	"github.com/gin-gonic/gin"

	"github.com/wso2/data-request-api/internal/system/stores"
)

// Initialize sets up the notification module and registers its routes on api.
func Initialize(api *gin.RouterGroup, registry *stores.StoreRegistry) NotificationService {
	service := NewNotificationService(registry)
	registerRoutes(api, newNotificationHandler(service))
	return service
}

func registerRoutes(api *gin.RouterGroup, handler *notificationHandler) {
	api.POST("/notifications", handler.notify)
	api.GET("/notifications/me", handler.isSeen)
	api.POST("/notifications/me/acknowledge", handler.acknowledge)
}
