package walletd

// Transaction states reported by the wallet daemon.
const (
	StatusPending  = "Pending"
	StatusAccepted = "Accepted"
	StatusRejected = "Rejected"
)

type authLoginRequest struct {
	Permissions []string `json:"permissions"`
}

type authLoginResponse struct {
	AuthToken string `json:"auth_token"`
}

type authAcceptRequest struct {
	AuthToken string `json:"auth_token"`
	Name      string `json:"name"`
}

type authAcceptResponse struct {
	PermissionsToken string `json:"permissions_token"`
}

type balanceRequest struct {
	Account string `json:"account,omitempty"`
}

type balanceResponse struct {
	AvailableBalance uint64 `json:"available_balance"`
}

type publishRequest struct {
	TemplateBinary []byte `json:"template_binary"`
	FeePerGram     uint64 `json:"fee_per_gram"`
}

type feeEstimateResponse struct {
	Fee uint64 `json:"fee"`
}

type publishResponse struct {
	TransactionID string `json:"transaction_id"`
}

type transactionResultRequest struct {
	TransactionID string `json:"transaction_id"`
}

// TransactionStatus is the polled state of a publish transaction.
type TransactionStatus struct {
	Status          string `json:"status"`
	TemplateAddress string `json:"template_address"`
	FailureReason   string `json:"failure_reason"`
}
