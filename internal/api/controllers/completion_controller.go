package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gatekeeper/internal/models/request_models"
	"gatekeeper/internal/services"
	"gatekeeper/pkg/utils"
)

type CompletionController struct {
	completionService services.CompletionServiceInterface
}

func NewCompletionController(completionService services.CompletionServiceInterface) *CompletionController {
	return &CompletionController{
		completionService: completionService,
	}
}

// CreateCompletion godoc
// @Summary Run one metered AI request
// @Tags AI
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.CompletionRequest true "Prompt"
// @Success 200 {object} utils.APIResponse
// @Failure 402 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /ai/requests [post]
func (cc *CompletionController) CreateCompletion(c *gin.Context) {
	var req request_models.CompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	result, err := cc.completionService.Complete(c.Request.Context(), c.GetUint("user_id"), req.Prompt)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Completion created successfully")
}
