package response

import (
	"time"

	"school-transport/internal/data/entity"
)

type RouteResponse struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Capacity       int                   `json:"capacity"`
	SeatsAvailable int64                 `json:"seats_available"`
	VehicleType    *string               `json:"vehicle_type,omitempty"`
	DriverID       *string               `json:"driver_id,omitempty"`
	IsActive       bool                  `json:"is_active"`
	PickupPoints   []PickupPointResponse `json:"pickup_points,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

type PickupPointResponse struct {
	ID        string  `json:"id"`
	RouteID   string  `json:"route_id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func RouteToResponse(route *entity.Route, occupied int64) RouteResponse {
	available := int64(route.Capacity) - occupied
	if available < 0 {
		available = 0
	}

	resp := RouteResponse{
		ID:             route.ID.String(),
		Name:           route.Name,
		Capacity:       route.Capacity,
		SeatsAvailable: available,
		IsActive:       route.IsActive,
		CreatedAt:      route.CreatedAt,
	}
	if route.VehicleType != nil {
		vt := string(*route.VehicleType)
		resp.VehicleType = &vt
	}
	if route.DriverID != nil {
		id := route.DriverID.String()
		resp.DriverID = &id
	}
	return resp
}

func PickupPointToResponse(point *entity.PickupPoint) PickupPointResponse {
	return PickupPointResponse{
		ID:        point.ID.String(),
		RouteID:   point.RouteID.String(),
		Name:      point.Name,
		Latitude:  point.Latitude,
		Longitude: point.Longitude,
	}
}
