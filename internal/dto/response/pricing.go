package response

import (
	"time"

	"school-transport/internal/data/entity"
)

type QuoteResponse struct {
	PlanType  string  `json:"plan_type"`
	TripType  string  `json:"trip_type"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Formatted string  `json:"formatted"`
}

type PricingRuleResponse struct {
	ID          string    `json:"id"`
	PlanType    string    `json:"plan_type"`
	TripType    string    `json:"trip_type"`
	RouteID     *string   `json:"route_id,omitempty"`
	VehicleType *string   `json:"vehicle_type,omitempty"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func PricingRuleToResponse(rule *entity.PricingRule) PricingRuleResponse {
	resp := PricingRuleResponse{
		ID:        rule.ID.String(),
		PlanType:  string(rule.PlanType),
		TripType:  string(rule.TripType),
		Amount:    rule.Amount,
		Currency:  rule.Currency,
		IsActive:  rule.IsActive,
		CreatedAt: rule.CreatedAt,
	}
	if rule.RouteID != nil {
		id := rule.RouteID.String()
		resp.RouteID = &id
	}
	if rule.VehicleType != nil {
		vt := string(*rule.VehicleType)
		resp.VehicleType = &vt
	}
	return resp
}
