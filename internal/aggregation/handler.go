package aggregation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wso2/data-request-api/internal/system/utils"
)

type aggregationHandler struct {
	service AggregationService
}

func newAggregationHandler(service AggregationService) *aggregationHandler {
	return &aggregationHandler{service: service}
}

// organizationView handles GET /organizations/:org/requests/view
func (h *aggregationHandler) organizationView(c *gin.Context) {
	params, serviceErr := ParseViewParams(c.Request.URL.Query())
	if serviceErr != nil {
		utils.SendError(c, serviceErr)
		return
	}

	view, serviceErr := h.service.OrganizationView(c.Request.Context(), utils.GetPrincipal(c), c.Param("org"), params)
	if serviceErr != nil {
		utils.SendError(c, serviceErr)
		return
	}
	c.JSON(http.StatusOK, view)
}

// adminView handles GET /admin/requests/view
func (h *aggregationHandler) adminView(c *gin.Context) {
	params, serviceErr := ParseViewParams(c.Request.URL.Query())
	if serviceErr != nil {
		utils.SendError(c, serviceErr)
		return
	}

	view, serviceErr := h.service.AdminView(c.Request.Context(), utils.GetPrincipal(c), params)
	if serviceErr != nil {
		utils.SendError(c, serviceErr)
		return
	}
	c.JSON(http.StatusOK, view)
}

// canTakeActions handles GET /organizations/:org/can-act. A denial is still a
// 200 so the caller can render the message.
func (h *aggregationHandler) canTakeActions(c *gin.Context) {
	result, serviceErr := h.service.CanTakeActions(c.Request.Context(), utils.GetPrincipal(c), c.Param("org"))
	if serviceErr != nil {
		utils.SendError(c, serviceErr)
		return
	}
	c.JSON(http.StatusOK, result)
}
