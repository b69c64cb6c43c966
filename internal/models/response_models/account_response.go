package response_models

type AccountStatus string

const (
	AccountStatusActive AccountStatus = "active"
	AccountStatusBanned AccountStatus = "banned"
)

// AccountStatusResponse is what the client-side ban poller reads.
type AccountStatusResponse struct {
	AccountID uint          `json:"account_id"`
	Status    AccountStatus `json:"status"`
}
