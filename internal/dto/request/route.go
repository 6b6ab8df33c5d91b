package request

type CreateRouteRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Capacity    int     `json:"capacity" validate:"gte=0"`
	VehicleType *string `json:"vehicle_type,omitempty" validate:"omitempty,oneof=van minibus bus"`
	DriverID    *string `json:"driver_id,omitempty" validate:"omitempty,uuid4"`
}

type UpdateRouteRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Capacity    int     `json:"capacity" validate:"gte=0"`
	VehicleType *string `json:"vehicle_type,omitempty" validate:"omitempty,oneof=van minibus bus"`
	DriverID    *string `json:"driver_id,omitempty" validate:"omitempty,uuid4"`
	IsActive    bool    `json:"is_active"`
}

type CreatePickupPointRequest struct {
	Name      string  `json:"name" validate:"required,min=2,max=100"`
	Latitude  float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"required,min=-180,max=180"`
}
