package funding

// MovementRequest captures user-provided data for deposits and withdrawals.
// Amounts travel as strings to keep them exact end to end.
type MovementRequest struct {
	Amount string `json:"amount"`
}

// MovementResponse represents the API response for a deposit or withdrawal.
type MovementResponse struct {
	TransactionID string `json:"transaction_id"`
	WalletID      string `json:"wallet_id"`
	Amount        string `json:"amount"`
	Type          string `json:"type"`
	CompletedAt   string `json:"completed_at"`
}
