package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wso2/data-request-api/internal/notification/model"
	"github.com/wso2/data-request-api/internal/system/error/serviceerror"
	"github.com/wso2/data-request-api/internal/system/utils"
)

type notificationHandler struct {
	service NotificationService
}

func newNotificationHandler(service NotificationService) *notificationHandler {
	return &notificationHandler{service: service}
}

// notify handles POST /notifications
func (h *notificationHandler) notify(c *gin.Context) {
	principal := utils.GetPrincipal(c)
	if principal.IsAnonymous() {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.AuthorizationError,
			"you must be logged in to notify maintainers"))
		return
	}

	var req model.NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBindError(c, err)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.SendError(c, err)
		return
	}

	if err := h.service.Notify(c.Request.Context(), req.IDs); err != nil {
		utils.SendError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// isSeen handles GET /notifications/me
func (h *notificationHandler) isSeen(c *gin.Context) {
	principal := utils.GetPrincipal(c)
	if principal.IsAnonymous() {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.AuthorizationError,
			"you must be logged in to read notifications"))
		return
	}

	seen, err := h.service.IsSeen(c.Request.Context(), principal.UserID)
	if err != nil {
		utils.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.SeenStatus{UserID: principal.UserID, Seen: seen})
}

// acknowledge handles POST /notifications/me/acknowledge
func (h *notificationHandler) acknowledge(c *gin.Context) {
	principal := utils.GetPrincipal(c)
	if principal.IsAnonymous() {
		utils.SendError(c, serviceerror.CustomServiceError(serviceerror.AuthorizationError,
			"you must be logged in to acknowledge notifications"))
		return
	}

	if err := h.service.Acknowledge(c.Request.Context(), principal.UserID); err != nil {
		utils.SendError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.SeenStatus{UserID: principal.UserID, Seen: true})
}
