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

func seedBooking(repo *fakeBookingRepo, routeID uuid.UUID, status entity.BookingStatus, start time.Time, end *time.Time) *entity.Booking {
	b := &entity.Booking{
		Base:      entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		OrderID:   "RIDE-TEST-" + uuid.NewString()[:8],
		StudentID: uuid.New(),
		RouteID:   routeID,
		Status:    status,
		StartDate: start,
		EndDate:   end,
	}
	repo.bookings[b.ID] = b
	return b
}

func TestValidateBookingCapacityFullRoute(t *testing.T) {
	repo := newFakeBookingRepo()
	route := &entity.Route{
		Base:     entity.Base{ID: uuid.New()},
		Name:     "Northside Loop",
		Capacity: 2,
		IsActive: true,
	}
	repo.capacities[route.ID] = route.Capacity

	onDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	seedBooking(repo, route.ID, entity.BookingStatusPending, onDate.AddDate(0, 0, -1), nil)
	seedBooking(repo, route.ID, entity.BookingStatusActive, onDate.AddDate(0, 0, -7), nil)

	svc := NewCapacityService(repo, zap.NewNop())

	err := svc.ValidateBookingCapacity(context.Background(), route, onDate)
	if err == nil {
		t.Fatal("expected capacity error on full route")
	}

	var capErr *CapacityExceededError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected CapacityExceededError, got %T: %v", err, err)
	}
	if got := err.Error(); got != "Route is at full capacity. No seats available." {
		t.Errorf("unexpected error message: %q", got)
	}
	if capErr.RouteID != route.ID {
		t.Errorf("error carries route %s, want %s", capErr.RouteID, route.ID)
	}
}

func TestValidateBookingCapacitySeatFree(t *testing.T) {
	repo := newFakeBookingRepo()
	route := &entity.Route{Base: entity.Base{ID: uuid.New()}, Capacity: 2, IsActive: true}
	repo.capacities[route.ID] = route.Capacity

	onDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	seedBooking(repo, route.ID, entity.BookingStatusActive, onDate.AddDate(0, 0, -7), nil)

	svc := NewCapacityService(repo, zap.NewNop())
	if err := svc.ValidateBookingCapacity(context.Background(), route, onDate); err != nil {
		t.Fatalf("expected seat to be free: %v", err)
	}
}

func TestValidateBookingCapacityDateWindow(t *testing.T) {
	repo := newFakeBookingRepo()
	route := &entity.Route{Base: entity.Base{ID: uuid.New()}, Capacity: 1, IsActive: true}
	repo.capacities[route.ID] = route.Capacity

	onDate := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	// Ends before the date in question; its seat is free again.
	ended := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	seedBooking(repo, route.ID, entity.BookingStatusActive, ended.AddDate(0, -1, 0), &ended)

	// Starts after the date in question; not occupying yet either.
	seedBooking(repo, route.ID, entity.BookingStatusAwaitingApproval, onDate.AddDate(0, 1, 0), nil)

	svc := NewCapacityService(repo, zap.NewNop())
	if err := svc.ValidateBookingCapacity(context.Background(), route, onDate); err != nil {
		t.Fatalf("bookings outside the date window must not occupy seats: %v", err)
	}

	occupied, err := svc.Occupancy(context.Background(), route, onDate)
	if err != nil {
		t.Fatalf("occupancy: %v", err)
	}
	if occupied != 0 {
		t.Errorf("occupancy = %d, want 0", occupied)
	}
}

func TestValidateBookingCapacityIgnoresTerminalStatuses(t *testing.T) {
	repo := newFakeBookingRepo()
	route := &entity.Route{Base: entity.Base{ID: uuid.New()}, Capacity: 1, IsActive: true}
	repo.capacities[route.ID] = route.Capacity

	onDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	for _, status := range []entity.BookingStatus{
		entity.BookingStatusCancelled,
		entity.BookingStatusExpired,
		entity.BookingStatusFailed,
		entity.BookingStatusCompleted,
	} {
		seedBooking(repo, route.ID, status, onDate.AddDate(0, 0, -1), nil)
	}

	svc := NewCapacityService(repo, zap.NewNop())
	if err := svc.ValidateBookingCapacity(context.Background(), route, onDate); err != nil {
		t.Fatalf("terminal bookings must not occupy seats: %v", err)
	}
}

func TestValidateBookingCapacityZeroCapacity(t *testing.T) {
	repo := newFakeBookingRepo()
	route := &entity.Route{Base: entity.Base{ID: uuid.New()}, Capacity: 0, IsActive: true}
	repo.capacities[route.ID] = route.Capacity

	svc := NewCapacityService(repo, zap.NewNop())
	err := svc.ValidateBookingCapacity(context.Background(), route, time.Now())

	var capErr *CapacityExceededError
	if !errors.As(err, &capErr) {
		t.Fatalf("zero-capacity route must reject every booking, got %v", err)
	}
}

func TestValidateBookingCapacityNilRoute(t *testing.T) {
	svc := NewCapacityService(newFakeBookingRepo(), zap.NewNop())
	if err := svc.ValidateBookingCapacity(context.Background(), nil, time.Now()); err == nil {
		t.Fatal("expected error for nil route")
	}
}
