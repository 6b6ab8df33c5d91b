package request

type QuoteRequest struct {
	PlanType string  `json:"plan_type" validate:"required,oneof=weekly monthly term annual"`
	TripType string  `json:"trip_type" validate:"required,oneof=one_way two_way"`
	RouteID  *string `json:"route_id,omitempty" validate:"omitempty,uuid4"`
}

type CreatePricingRuleRequest struct {
	PlanType    string  `json:"plan_type" validate:"required,oneof=weekly monthly term annual"`
	TripType    string  `json:"trip_type" validate:"required,oneof=one_way two_way"`
	RouteID     *string `json:"route_id,omitempty" validate:"omitempty,uuid4"`
	VehicleType *string `json:"vehicle_type,omitempty" validate:"omitempty,oneof=van minibus bus"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	Currency    string  `json:"currency" validate:"required,len=3"`
	IsActive    bool    `json:"is_active"`
}

type UpdatePricingRuleRequest struct {
	Amount   float64 `json:"amount" validate:"gte=0"`
	Currency string  `json:"currency" validate:"required,len=3"`
	IsActive bool    `json:"is_active"`
}
