package response_models

// QuotaStatus is the outcome of a subscription resolution.
//
// RequestsRemaining reports that a subscription record was resolved, not that
// quota headroom is left; use AvailableRequests for that.
type QuotaStatus struct {
	IsBlocked         bool  `json:"isBlocked"`
	RequestsRemaining bool  `json:"requestsRemaining"`
	AvailableRequests int64 `json:"availableRequests"`
	TotalRequests     int64 `json:"totalRequests"`
	UsedRequests      int64 `json:"usedRequests"`
}
