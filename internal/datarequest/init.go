package datarequest

import (
	"github.com/gin-gonic/gin"

	"github.com/wso2/data-request-api/internal/authz"
	"github.com/wso2/data-request-api/internal/catalog"
	"github.com/wso2/data-request-api/internal/maintainer"
	"github.com/wso2/data-request-api/internal/system/stores"
)

// Initialize sets up the data request module and registers its routes on api.
func Initialize(api *gin.RouterGroup, registry *stores.StoreRegistry, cat catalog.Catalog, resolver maintainer.Resolver,
	checker *authz.Checker, options ServiceOptions) DataRequestService {
	service := NewDataRequestService(registry, cat, resolver, checker, options)
	registerRoutes(api, newDataRequestHandler(service))
	return service
}

func registerRoutes(api *gin.RouterGroup, handler *dataRequestHandler) {
	api.POST("/requests", handler.createRequest)
	api.GET("/requests", handler.listRequests)
	api.GET("/requests/:id", handler.getRequest)
	api.PATCH("/requests/:id", handler.patchRequest)
	api.POST("/requests/:id/actions/:action", handler.respond)
}
