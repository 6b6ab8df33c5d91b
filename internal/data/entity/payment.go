package entity

import (
	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type Payment struct {
	Base
	BookingID             uuid.UUID     `db:"booking_id"`
	Amount                float64       `db:"amount"`
	Currency              string        `db:"currency"`
	Status                PaymentStatus `db:"status"`
	StripePaymentIntentID string        `db:"stripe_payment_intent_id"`
}
