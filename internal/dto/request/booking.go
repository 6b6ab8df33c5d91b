package request

type CreateBookingRequest struct {
	StudentID     string  `json:"student_id" validate:"required,uuid4"`
	RouteID       string  `json:"route_id" validate:"required,uuid4"`
	PickupPointID string  `json:"pickup_point_id" validate:"required,uuid4"`
	PlanType      string  `json:"plan_type" validate:"required,oneof=weekly monthly term annual"`
	TripType      string  `json:"trip_type" validate:"required,oneof=one_way two_way"`
	StartDate     string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}
