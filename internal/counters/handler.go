package counters

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wso2/data-request-api/internal/counters/model"
	"github.com/wso2/data-request-api/internal/system/utils"
)

type countersHandler struct {
	service CountersService
}

func newCountersHandler(service CountersService) *countersHandler {
	return &countersHandler{service: service}
}

// increment handles POST /counters/:packageId/increment
func (h *countersHandler) increment(c *gin.Context) {
	var req model.IncrementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBindError(c, err)
		return
	}

	counters, serviceErr := h.service.Increment(c.Request.Context(), utils.GetPrincipal(c),
		c.Param("packageId"), model.Flag(req.Flag))
	if serviceErr != nil {
		utils.SendError(c, serviceErr)
		return
	}
	c.JSON(http.StatusOK, counters)
}

// get handles GET /counters/:packageId
func (h *countersHandler) get(c *gin.Context) {
	counters, serviceErr := h.service.Get(c.Request.Context(), c.Param("packageId"))
	if serviceErr != nil {
		utils.SendError(c, serviceErr)
		return
	}
	c.JSON(http.StatusOK, counters)
}

// getForOrganization handles GET /organizations/:org/counters
func (h *countersHandler) getForOrganization(c *gin.Context) {
	summary, serviceErr := h.service.GetForOrganization(c.Request.Context(), c.Param("org"))
	if serviceErr != nil {
		utils.SendError(c, serviceErr)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getAll handles GET /counters
func (h *countersHandler) getAll(c *gin.Context) {
	summary, serviceErr := h.service.GetAll(c.Request.Context(), utils.GetPrincipal(c))
	if serviceErr != nil {
		utils.SendError(c, serviceErr)
		return
	}
	c.JSON(http.StatusOK, summary)
}
