package usecase

import (
	"fmt"

	"school-transport/internal/data/entity"

	"github.com/google/uuid"
)

// Machine-readable error codes surfaced at the API boundary.
const (
	CodeCapacityExceeded  = "capacity_exceeded"
	CodePricingNotFound   = "pricing_not_found"
	CodeInvalidTransition = "invalid_transition"
)

// CapacityExceededError rejects a booking because every seat on the route
// is taken. User-correctable: pick another route or start date.
type CapacityExceededError struct {
	RouteID uuid.UUID
}

func (e *CapacityExceededError) Error() string {
	return "Route is at full capacity. No seats available."
}

// PricingNotFoundError means no active rule matched at any precedence
// level. A configuration gap, surfaced to admins rather than parents.
type PricingNotFoundError struct {
	PlanType entity.PlanType
}

func (e *PricingNotFoundError) Error() string {
	return fmt.Sprintf("no active pricing rule for plan type %s", string(e.PlanType))
}

// InvalidTransitionError is raised when an event is applied to a booking
// whose status does not accept it. Should not occur under correct
// sequencing; it is logged and reported, never silently swallowed.
type InvalidTransitionError struct {
	Status entity.BookingStatus
	Event  entity.BookingEvent
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot apply event %s to booking in status %s", string(e.Event), string(e.Status))
}
