package request_models

type LinkPreviewRequest struct {
	URL string `json:"url" binding:"required"`
}
