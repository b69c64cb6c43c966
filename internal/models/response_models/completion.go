package response_models

type CompletionResponse struct {
	Text     string `json:"text"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	// Nil for plans without a request cap.
	RemainingRequests *int64 `json:"remaining_requests,omitempty"`
}
