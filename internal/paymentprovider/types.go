package paymentprovider

// CreateChargeRequest asks the processor to open a checkout for a pending
// purchase. Reference is the purchase uid and comes back in the webhook.
type CreateChargeRequest struct {
	Amount      int    `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	Reference   string `json:"reference"`
	ReturnURL   string `json:"return_url,omitempty"`
}

// CreateChargeResponse carries the checkout the kiosk should open.
type CreateChargeResponse struct {
	ChargeID    string `json:"charge_id"`
	Status      string `json:"status"`
	CheckoutURL string `json:"checkout_url"`
}

// WebhookEvent is the processor's callback body for a charge that reached
// a terminal state.
type WebhookEvent struct {
	ChargeID  string `json:"charge_id"`
	Reference string `json:"reference" validate:"required,uuid"`
	Status    string `json:"status" validate:"required"`
	Amount    int    `json:"amount"`
}
