package aggregation

import (
	"github.com/gin-gonic/gin"

	"github.com/wso2/data-request-api/internal/authz"
	"github.com/wso2/data-request-api/internal/catalog"
	"github.com/wso2/data-request-api/internal/maintainer"
	"github.com/wso2/data-request-api/internal/system/stores"
)

// Initialize sets up the aggregation module and registers its routes on api.
func Initialize(api *gin.RouterGroup, registry *stores.StoreRegistry, cat catalog.Catalog, resolver maintainer.Resolver,
	checker *authz.Checker) AggregationService {
	service := NewAggregationService(registry, cat, resolver, checker)
	registerRoutes(api, newAggregationHandler(service))
	return service
}

func registerRoutes(api *gin.RouterGroup, handler *aggregationHandler) {
	api.GET("/organizations/:org/requests/view", handler.organizationView)
	api.GET("/organizations/:org/can-act", handler.canTakeActions)
	api.GET("/admin/requests/view", handler.adminView)
}
