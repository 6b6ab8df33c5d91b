package usecase

import (
	"context"
	"fmt"

	"school-transport/internal/data/entity"
	"school-transport/internal/data/repository"

	"go.uber.org/zap"
)

// LifecycleService applies the booking status machine. On success the
// booking's status field is updated in place and persisted; that is the
// only field the policy touches. Notifications are the caller's job.
type LifecycleService interface {
	Transition(ctx context.Context, booking *entity.Booking, event entity.BookingEvent) (entity.BookingStatus, error)
}

type lifecycleService struct {
	bookings repository.BookingRepository
	log      *zap.Logger
}

func NewLifecycleService(bookings repository.BookingRepository, log *zap.Logger) LifecycleService {
	return &lifecycleService{
		bookings: bookings,
		log:      log.With(zap.String("service", "lifecycle")),
	}
}

func (s *lifecycleService) Transition(ctx context.Context, booking *entity.Booking, event entity.BookingEvent) (entity.BookingStatus, error) {
	if booking == nil {
		return "", fmt.Errorf("booking is required for transition")
	}

	next, ok := entity.NextStatus(booking.Status, event)
	if !ok {
		s.log.Warn("Rejected booking transition",
			zap.String("booking_id", booking.ID.String()),
			zap.String("status", string(booking.Status)),
			zap.String("event", string(event)),
		)
		return "", &InvalidTransitionError{Status: booking.Status, Event: event}
	}

	if err := s.bookings.UpdateStatus(ctx, booking.ID, next); err != nil {
		return "", fmt.Errorf("persist status %s on booking %s: %w", string(next), booking.ID.String(), err)
	}

	prev := booking.Status
	booking.Status = next

	s.log.Info("Booking transitioned",
		zap.String("booking_id", booking.ID.String()),
		zap.String("from", string(prev)),
		zap.String("to", string(next)),
		zap.String("event", string(event)),
	)

	return next, nil
}
