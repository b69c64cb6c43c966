package response_models

type SubscriptionPlan struct {
	ID                    uint     `json:"id"`
	Code                  string   `json:"code"`                  // e.g., "free", "pro", "custom"
	Name                  string   `json:"name"`                  // Plan name
	Description           *string  `json:"description,omitempty"` // Optional description
	IncludedRequests      int64    `json:"included_requests"`     // 0 = custom, negotiated separately
	Price                 int64    `json:"price"`                 // minor units
	ExtraPricePerThousand *int64   `json:"extra_price_per_thousand,omitempty"`
	Features              []string `json:"features,omitempty"` // List of features
}
