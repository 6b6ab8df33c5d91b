package usecase

import (
	"context"
	"fmt"
	"time"

	"school-transport/internal/data/entity"
	"school-transport/internal/data/repository"

	"go.uber.org/zap"
)

// CapacityService is the admission check run before a booking is created.
// The check here is a plain read; the race-free variant lives in
// BookingRepository.CreateWithCapacity, which repeats the count under a
// route row lock.
type CapacityService interface {
	ValidateBookingCapacity(ctx context.Context, route *entity.Route, onDate time.Time) error
	Occupancy(ctx context.Context, route *entity.Route, onDate time.Time) (int64, error)
}

type capacityService struct {
	bookings repository.BookingRepository
	log      *zap.Logger
}

func NewCapacityService(bookings repository.BookingRepository, log *zap.Logger) CapacityService {
	return &capacityService{
		bookings: bookings,
		log:      log.With(zap.String("service", "capacity")),
	}
}

// ValidateBookingCapacity counts bookings occupying a seat on the route on
// the given date and fails when the route is already full. Occupancy is
// date-window aware: a booking whose interval does not contain onDate does
// not consume a seat even if its status is still non-terminal.
func (s *capacityService) ValidateBookingCapacity(ctx context.Context, route *entity.Route, onDate time.Time) error {
	if route == nil {
		return fmt.Errorf("route is required for capacity validation")
	}

	occupied, err := s.bookings.CountOccupying(ctx, route.ID, onDate)
	if err != nil {
		s.log.Error("Failed to count route occupancy",
			zap.Error(err),
			zap.String("route_id", route.ID.String()),
		)
		return fmt.Errorf("count occupancy for route %s: %w", route.ID.String(), err)
	}

	if occupied >= int64(route.Capacity) {
		s.log.Warn("Route at full capacity",
			zap.String("route_id", route.ID.String()),
			zap.Int("capacity", route.Capacity),
			zap.Int64("occupied", occupied),
		)
		return &CapacityExceededError{RouteID: route.ID}
	}

	return nil
}

func (s *capacityService) Occupancy(ctx context.Context, route *entity.Route, onDate time.Time) (int64, error) {
	if route == nil {
		return 0, fmt.Errorf("route is required for occupancy lookup")
	}

	return s.bookings.CountOccupying(ctx, route.ID, onDate)
}
