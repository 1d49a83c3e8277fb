package datarequest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wso2/data-request-api/internal/datarequest/model"
	"github.com/wso2/data-request-api/internal/datarequest/validator"
	"github.com/wso2/data-request-api/internal/system/utils"
)

type dataRequestHandler struct {
	service DataRequestService
}

func newDataRequestHandler(service DataRequestService) *dataRequestHandler {
	return &dataRequestHandler{service: service}
}

// createRequest handles POST /requests
func (h *dataRequestHandler) createRequest(c *gin.Context) {
	var req model.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBindError(c, err)
		return
	}

	result, serviceErr := h.service.Create(c.Request.Context(), utils.GetPrincipal(c), req)
	if serviceErr != nil {
		utils.SendError(c, serviceErr)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// listRequests handles GET /requests?scope=&org_id=
func (h *dataRequestHandler) listRequests(c *gin.Context) {
	scope, serviceErr := validator.ParseScope(c.Query("scope"))
	if serviceErr != nil {
		utils.SendError(c, serviceErr)
		return
	}

	requests, serviceErr := h.service.List(c.Request.Context(), utils.GetPrincipal(c), scope, c.Query("org_id"))
	if serviceErr != nil {
		utils.SendError(c, serviceErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  requests,
		"count": len(requests),
	})
}

// getRequest handles GET /requests/:id?package_id=
func (h *dataRequestHandler) getRequest(c *gin.Context) {
	detail, serviceErr := h.service.Show(c.Request.Context(), utils.GetPrincipal(c), c.Param("id"), c.Query("package_id"))
	if serviceErr != nil {
		utils.SendError(c, serviceErr)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// patchRequest handles PATCH /requests/:id?package_id=
func (h *dataRequestHandler) patchRequest(c *gin.Context) {
	var req model.PatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBindError(c, err)
		return
	}

	updated, serviceErr := h.service.Patch(c.Request.Context(), utils.GetPrincipal(c), c.Param("id"), c.Query("package_id"), req)
	if serviceErr != nil {
		utils.SendError(c, serviceErr)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// respond handles POST /requests/:id/actions/:action?package_id=
func (h *dataRequestHandler) respond(c *gin.Context) {
	action, serviceErr := validator.ParseAction(c.Param("action"))
	if serviceErr != nil {
		utils.SendError(c, serviceErr)
		return
	}

	updated, serviceErr := h.service.Respond(c.Request.Context(), utils.GetPrincipal(c), c.Param("id"), c.Query("package_id"), action)
	if serviceErr != nil {
		utils.SendError(c, serviceErr)
		return
	}
	c.JSON(http.StatusOK, updated)
}
