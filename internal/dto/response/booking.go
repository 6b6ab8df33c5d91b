package response

import (
	"time"

	"school-transport/internal/data/entity"
)

type BookingResponse struct {
	ID              string           `json:"id"`
	OrderID         string           `json:"order_id"`
	StudentID       string           `json:"student_id"`
	StudentName     string           `json:"student_name,omitempty"`
	RouteID         string           `json:"route_id"`
	RouteName       string           `json:"route_name,omitempty"`
	PickupPointID   string           `json:"pickup_point_id"`
	PickupPointName string           `json:"pickup_point_name,omitempty"`
	PlanType        string           `json:"plan_type"`
	TripType        string           `json:"trip_type"`
	Status          string           `json:"status"`
	StartDate       string           `json:"start_date"`
	EndDate         *string          `json:"end_date,omitempty"`
	Amount          float64          `json:"amount"`
	Currency        string           `json:"currency"`
	Price           string           `json:"price"`
	Payment         *PaymentResponse `json:"payment,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

type PaymentResponse struct {
	ID                    string    `json:"id"`
	BookingID             string    `json:"booking_id"`
	Amount                float64   `json:"amount"`
	Currency              string    `json:"currency"`
	Status                string    `json:"status"`
	StripePaymentIntentID string    `json:"stripe_payment_intent_id,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}

func PaymentToResponse(payment *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                    payment.ID.String(),
		BookingID:             payment.BookingID.String(),
		Amount:                payment.Amount,
		Currency:              payment.Currency,
		Status:                string(payment.Status),
		StripePaymentIntentID: payment.StripePaymentIntentID,
		CreatedAt:             payment.CreatedAt,
	}
}
