package entity

import "github.com/google/uuid"

type PickupPoint struct {
	Base
	RouteID   uuid.UUID `db:"route_id"`
	Name      string    `db:"name"`
	Latitude  float64   `db:"latitude"`
	Longitude float64   `db:"longitude"`
}
