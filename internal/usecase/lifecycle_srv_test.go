package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"school-transport/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestTransitionHappyPath(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := NewLifecycleService(repo, zap.NewNop())
	ctx := context.Background()

	booking := seedBooking(repo, uuid.New(), entity.BookingStatusPending, time.Now(), nil)

	steps := []struct {
		event entity.BookingEvent
		want  entity.BookingStatus
	}{
		{entity.EventPaymentSucceeded, entity.BookingStatusAwaitingApproval},
		{entity.EventStartDateReached, entity.BookingStatusActive},
		{entity.EventTripCompleted, entity.BookingStatusCompleted},
	}
	for _, step := range steps {
		next, err := svc.Transition(ctx, booking, step.event)
		if err != nil {
			t.Fatalf("transition %s: %v", step.event, err)
		}
		if next != step.want {
			t.Fatalf("transition %s = %s, want %s", step.event, next, step.want)
		}
		if booking.Status != step.want {
			t.Fatalf("booking status not updated in place: %s", booking.Status)
		}
		persisted, _ := repo.FindByID(ctx, booking.ID)
		if persisted.Status != step.want {
			t.Fatalf("status %s not persisted", step.want)
		}
	}
}

func TestTransitionTerminalStateRejectsEverything(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := NewLifecycleService(repo, zap.NewNop())
	ctx := context.Background()

	events := []entity.BookingEvent{
		entity.EventPaymentSucceeded,
		entity.EventPaymentFailed,
		entity.EventStartDateReached,
		entity.EventEndDateReached,
		entity.EventCancelledByUser,
		entity.EventCancelledByAdmin,
		entity.EventTripCompleted,
	}
	terminals := []entity.BookingStatus{
		entity.BookingStatusCompleted,
		entity.BookingStatusCancelled,
		entity.BookingStatusExpired,
		entity.BookingStatusFailed,
	}

	for _, status := range terminals {
		booking := seedBooking(repo, uuid.New(), status, time.Now(), nil)
		for _, event := range events {
			_, err := svc.Transition(ctx, booking, event)

			var invalid *InvalidTransitionError
			if !errors.As(err, &invalid) {
				t.Fatalf("terminal %s accepted %s: %v", status, event, err)
			}
			if invalid.Status != status || invalid.Event != event {
				t.Errorf("error reports (%s, %s), want (%s, %s)", invalid.Status, invalid.Event, status, event)
			}
			if booking.Status != status {
				t.Fatalf("rejected transition mutated status to %s", booking.Status)
			}
		}
	}
}

func TestTransitionCancelledThenCompleteRejected(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := NewLifecycleService(repo, zap.NewNop())
	ctx := context.Background()

	booking := seedBooking(repo, uuid.New(), entity.BookingStatusPending, time.Now(), nil)

	if _, err := svc.Transition(ctx, booking, entity.EventCancelledByUser); err != nil {
		t.Fatalf("cancel pending booking: %v", err)
	}
	if booking.Status != entity.BookingStatusCancelled {
		t.Fatalf("status = %s, want cancelled", booking.Status)
	}

	_, err := svc.Transition(ctx, booking, entity.EventTripCompleted)
	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("completing a cancelled booking must fail loudly, got %v", err)
	}
}

func TestTransitionPaymentFailed(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := NewLifecycleService(repo, zap.NewNop())

	booking := seedBooking(repo, uuid.New(), entity.BookingStatusPending, time.Now(), nil)

	next, err := svc.Transition(context.Background(), booking, entity.EventPaymentFailed)
	if err != nil {
		t.Fatalf("payment failed event: %v", err)
	}
	if next != entity.BookingStatusFailed {
		t.Errorf("next = %s, want failed", next)
	}
}
