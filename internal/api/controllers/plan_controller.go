package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gatekeeper/internal/services"
	"gatekeeper/pkg/utils"
)

type PlanController struct {
	planService services.PlanServiceInterface
}

func NewPlanController(planService services.PlanServiceInterface) *PlanController {
	return &PlanController{
		planService: planService,
	}
}

// GetPlans godoc
// @Summary List subscription plans
// @Tags Plans
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /plans [get]
func (p *PlanController) GetPlans(c *gin.Context) {
	plans, err := p.planService.GetPlans(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plans, "Plans retrieved successfully")
}

// GetPlanById godoc
// @Summary Get a subscription plan
// @Tags Plans
// @Produce json
// @Param id path int true "Plan ID"
// @Success 200 {object} utils.APIResponse{data=response_models.SubscriptionPlan}
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /plans/{id} [get]
func (p *PlanController) GetPlanById(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid plan id")
		return
	}

	plan, err := p.planService.GetPlanInfoById(c.Request.Context(), uint(id))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plan, "Plan retrieved successfully")
}
