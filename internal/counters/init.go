package counters

import (
	"github.com/gin-gonic/gin"

	"github.com/wso2/data-request-api/internal/authz"
	"github.com/wso2/data-request-api/internal/catalog"
	"github.com/wso2/data-request-api/internal/system/stores"
)

// Initialize sets up the counters module and registers its routes on api.
func Initialize(api *gin.RouterGroup, registry *stores.StoreRegistry, cat catalog.Catalog, checker *authz.Checker) CountersService {
	service := NewCountersService(registry, cat, checker)
	registerRoutes(api, newCountersHandler(service))
	return service
}

func registerRoutes(api *gin.RouterGroup, handler *countersHandler) {
	api.GET("/counters", handler.getAll)
	api.GET("/counters/:packageId", handler.get)
	api.POST("/counters/:packageId/increment", handler.increment)
	api.GET("/organizations/:org/counters", handler.getForOrganization)
}
