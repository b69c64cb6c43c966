package db_models

// AiRequest is one consumed unit of the metered AI resource.
type AiRequest struct {
	BaseModel
	UserID      uint `gorm:"index;not null"`
	Provider    string
	Model       string
	PromptChars int
}
