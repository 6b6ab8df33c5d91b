package payment

import (
	"context"
)

// Provider is the payment gateway boundary. The booking flow creates a
// charge, the webhook handler verifies and decodes incoming events;
// everything protocol-specific stays behind this interface.
type Provider interface {
	CreateCustomer(ctx context.Context, request *CustomerRequest) (*CustomerResponse, error)
	CreateCharge(ctx context.Context, request *ChargeRequest) (*ChargeResponse, error)
	RefundCharge(ctx context.Context, request *RefundRequest) (*RefundResponse, error)
	ValidateWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error)
}

type CustomerRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type CustomerResponse struct {
	CustomerID string `json:"customer_id"`
}

type ChargeRequest struct {
	Amount      float64           `json:"amount"`
	Currency    string            `json:"currency"`
	CustomerID  string            `json:"customer_id"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata"`
}

type ChargeResponse struct {
	TransactionID string  `json:"transaction_id"`
	Status        string  `json:"status"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	CreatedAt     int64   `json:"created_at"`
}

type RefundRequest struct {
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Reason        string  `json:"reason"`
}

type RefundResponse struct {
	RefundID  string  `json:"refund_id"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	CreatedAt int64   `json:"created_at"`
}

// Webhook event types, normalized from the gateway's own naming.
const (
	EventPaymentSucceeded = "payment_succeeded"
	EventPaymentFailed    = "payment_failed"
)

type WebhookEvent struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	TransactionID string            `json:"transaction_id"`
	Metadata      map[string]string `json:"metadata"`
	CreatedAt     int64             `json:"created_at"`
}
