package controllers

import (
	"github.com/gin-gonic/gin"

	"gatekeeper/internal/services"
	"gatekeeper/pkg/utils"
)

type SubscriptionController struct {
	quotaService services.QuotaServiceInterface
}

func NewSubscriptionController(quotaService services.QuotaServiceInterface) *SubscriptionController {
	return &SubscriptionController{
		quotaService: quotaService,
	}
}

// GetStatus godoc
// @Summary Quota status of the signed-in user
// @Description Resolves (and on first use provisions) the user's subscription. Never fails: store problems report a blocked status.
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /subscription/status [get]
func (s *SubscriptionController) GetStatus(c *gin.Context) {
	status := s.quotaService.ResolveStatus(c.Request.Context(), c.GetUint("user_id"))
	utils.RespondSuccess(c, status, "Subscription status retrieved successfully")
}
