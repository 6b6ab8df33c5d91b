package entity

import "github.com/google/uuid"

// PricingRule prices one plan/trip combination. RouteID nil means the rule
// applies to every route; VehicleType nil means it applies to any vehicle.
// At most one active rule may exist per (plan_type, trip_type, route_id,
// vehicle_type) tuple; the pricing service enforces this before writes.
type PricingRule struct {
	Base
	PlanType    PlanType     `db:"plan_type"`
	TripType    TripType     `db:"trip_type"`
	RouteID     *uuid.UUID   `db:"route_id"`
	VehicleType *VehicleType `db:"vehicle_type"`
	Amount      float64      `db:"amount"`
	Currency    string       `db:"currency"`
	IsActive    bool         `db:"is_active"`
}
