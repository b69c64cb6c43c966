package request_models

type CompletionRequest struct {
	Prompt string `json:"prompt" binding:"required,max=8000"`
}
