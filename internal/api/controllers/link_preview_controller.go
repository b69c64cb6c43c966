package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gatekeeper/internal/models/request_models"
	"gatekeeper/internal/services"
	"gatekeeper/pkg/utils"
)

type LinkPreviewController struct {
	previewService services.LinkPreviewServiceInterface
}

func NewLinkPreviewController(previewService services.LinkPreviewServiceInterface) *LinkPreviewController {
	return &LinkPreviewController{
		previewService: previewService,
	}
}

// Preview godoc
// @Summary Fetch title, description and image of a public web page
// @Description The preview {title, description, image, url} is returned in the envelope's data field; errors carry the reason in error.
// @Tags LinkPreview
// @Accept json
// @Produce json
// @Param request body request_models.LinkPreviewRequest true "URL to preview"
// @Success 200 {object} utils.APIResponse{data=response_models.LinkPreview}
// @Failure 400 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /link-preview [post]
func (l *LinkPreviewController) Preview(c *gin.Context) {
	var req request_models.LinkPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Ungültige URL")
		return
	}

	preview, err := l.previewService.Preview(c.Request.Context(), req.URL)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, preview, "Preview created successfully")
}
