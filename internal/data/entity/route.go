package entity

import "github.com/google/uuid"

type VehicleType string

const (
	VehicleVan     VehicleType = "van"
	VehicleMinibus VehicleType = "minibus"
	VehicleBus     VehicleType = "bus"
)

// Route is a fixed school-transport line with a hard seat capacity.
// Capacity is never negative; a zero-capacity route accepts no bookings.
type Route struct {
	Base
	Name        string       `db:"name"`
	Capacity    int          `db:"capacity"`
	VehicleType *VehicleType `db:"vehicle_type"` // nil when not yet assigned a vehicle
	DriverID    *uuid.UUID   `db:"driver_id"`
	IsActive    bool         `db:"is_active"`
}
