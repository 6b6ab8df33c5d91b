package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"school-transport/internal/data/entity"
	"school-transport/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type sweepBookingRepo struct {
	bookings map[uuid.UUID]*entity.Booking
}

func newSweepBookingRepo() *sweepBookingRepo {
	return &sweepBookingRepo{bookings: make(map[uuid.UUID]*entity.Booking)}
}

func (r *sweepBookingRepo) add(status entity.BookingStatus, start time.Time, end *time.Time) *entity.Booking {
	b := &entity.Booking{
		Base:      entity.Base{ID: uuid.New()},
		Status:    status,
		StartDate: start,
		EndDate:   end,
	}
	r.bookings[b.ID] = b
	return b
}

func (r *sweepBookingRepo) CreateWithCapacity(context.Context, *entity.Booking) error {
	return fmt.Errorf("not used in sweep tests")
}

func (r *sweepBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.bookings[id], nil
}

func (r *sweepBookingRepo) FindByOrderID(context.Context, string) (*entity.Booking, error) {
	return nil, nil
}

func (r *sweepBookingRepo) FindByParentID(context.Context, uuid.UUID, int, int) ([]*entity.Booking, error) {
	return nil, nil
}

func (r *sweepBookingRepo) CountByParentID(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *sweepBookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.BookingStatus) error {
	b, ok := r.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s not found", id.String())
	}
	b.Status = status
	return nil
}

func (r *sweepBookingRepo) SetStripeCustomerID(context.Context, uuid.UUID, string) error {
	return nil
}

func (r *sweepBookingRepo) CountOccupying(context.Context, uuid.UUID, time.Time) (int64, error) {
	return 0, nil
}

func (r *sweepBookingRepo) FindDueForActivation(_ context.Context, now time.Time) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range r.bookings {
		if b.Status == entity.BookingStatusAwaitingApproval && !b.StartDate.After(now) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *sweepBookingRepo) FindDueForExpiry(_ context.Context, now time.Time) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range r.bookings {
		if b.EndDate == nil || !b.EndDate.Before(now) {
			continue
		}
		if b.Status == entity.BookingStatusPending || b.Status == entity.BookingStatusActive {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *sweepBookingRepo) FindEndingWithin(_ context.Context, now time.Time, window time.Duration) ([]*entity.Booking, error) {
	limit := now.Add(window)
	var out []*entity.Booking
	for _, b := range r.bookings {
		if b.Status != entity.BookingStatusActive || b.EndDate == nil {
			continue
		}
		if !b.EndDate.Before(now) && !b.EndDate.After(limit) {
			out = append(out, b)
		}
	}
	return out, nil
}

type recordingNotifier struct {
	events   []entity.BookingEvent
	warnings []uuid.UUID
}

func (n *recordingNotifier) BookingEvent(_ *entity.Booking, event entity.BookingEvent) error {
	n.events = append(n.events, event)
	return nil
}

func (n *recordingNotifier) ExpiryWarning(booking *entity.Booking, _ time.Time) error {
	n.warnings = append(n.warnings, booking.ID)
	return nil
}

func (n *recordingNotifier) Close() {}

func newTestSweeper(repo *sweepBookingRepo, notify *recordingNotifier) *Sweeper {
	log := zap.NewNop()
	lifecycle := usecase.NewLifecycleService(repo, log)
	return NewSweeper(repo, lifecycle, notify, nil, Config{
		SweepInterval:   time.Hour,
		WarningInterval: 24 * time.Hour,
		WarningWindow:   7 * 24 * time.Hour,
	}, log)
}

func TestSweepActivatesDueBookings(t *testing.T) {
	repo := newSweepBookingRepo()
	notify := &recordingNotifier{}
	now := time.Date(2026, 9, 1, 6, 0, 0, 0, time.UTC)

	due := repo.add(entity.BookingStatusAwaitingApproval, now.AddDate(0, 0, -1), nil)
	notYet := repo.add(entity.BookingStatusAwaitingApproval, now.AddDate(0, 0, 3), nil)

	sweeper := newTestSweeper(repo, notify)
	sweeper.SweepStatuses(context.Background(), now)

	if due.Status != entity.BookingStatusActive {
		t.Errorf("due booking status = %s, want active", due.Status)
	}
	if notYet.Status != entity.BookingStatusAwaitingApproval {
		t.Errorf("future booking status = %s, want awaiting_approval untouched", notYet.Status)
	}
	if len(notify.events) != 1 || notify.events[0] != entity.EventStartDateReached {
		t.Errorf("notifications = %v, want one startDateReached", notify.events)
	}
}

func TestSweepExpiresEndedBookings(t *testing.T) {
	repo := newSweepBookingRepo()
	notify := &recordingNotifier{}
	now := time.Date(2026, 9, 1, 6, 0, 0, 0, time.UTC)

	ended := now.AddDate(0, 0, -2)
	active := repo.add(entity.BookingStatusActive, now.AddDate(0, -2, 0), &ended)
	neverPaid := repo.add(entity.BookingStatusPending, now.AddDate(0, -2, 0), &ended)
	openEnded := repo.add(entity.BookingStatusActive, now.AddDate(0, -2, 0), nil)

	sweeper := newTestSweeper(repo, notify)
	sweeper.SweepStatuses(context.Background(), now)

	if active.Status != entity.BookingStatusExpired {
		t.Errorf("active booking past end date = %s, want expired", active.Status)
	}
	if neverPaid.Status != entity.BookingStatusExpired {
		t.Errorf("pending booking past end date = %s, want expired", neverPaid.Status)
	}
	if openEnded.Status != entity.BookingStatusActive {
		t.Errorf("open-ended booking = %s, must never expire", openEnded.Status)
	}
}

// anomalyRepo returns every booking from the activation query regardless
// of status, simulating a stale read racing a concurrent transition.
type anomalyRepo struct {
	*sweepBookingRepo
}

func (r *anomalyRepo) FindDueForActivation(_ context.Context, now time.Time) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range r.bookings {
		if !b.StartDate.After(now) {
			out = append(out, b)
		}
	}
	return out, nil
}

func TestSweepSkipsRejectedTransitions(t *testing.T) {
	inner := newSweepBookingRepo()
	notify := &recordingNotifier{}
	now := time.Date(2026, 9, 1, 6, 0, 0, 0, time.UTC)

	// A cancelled booking surfaced by a stale activation query; the state
	// machine rejects the event and the sweep must step over it.
	cancelled := inner.add(entity.BookingStatusCancelled, now.AddDate(0, 0, -1), nil)
	due := inner.add(entity.BookingStatusAwaitingApproval, now.AddDate(0, 0, -1), nil)

	repo := &anomalyRepo{inner}
	log := zap.NewNop()
	sweeper := NewSweeper(repo, usecase.NewLifecycleService(repo, log), notify, nil, Config{
		SweepInterval:   time.Hour,
		WarningInterval: 24 * time.Hour,
		WarningWindow:   7 * 24 * time.Hour,
	}, log)

	sweeper.SweepStatuses(context.Background(), now)

	if cancelled.Status != entity.BookingStatusCancelled {
		t.Errorf("cancelled booking mutated to %s", cancelled.Status)
	}
	if due.Status != entity.BookingStatusActive {
		t.Errorf("due booking = %s, want active despite the skipped one", due.Status)
	}
}

func TestSendExpiryWarnings(t *testing.T) {
	repo := newSweepBookingRepo()
	notify := &recordingNotifier{}
	now := time.Date(2026, 9, 1, 6, 0, 0, 0, time.UTC)

	soon := now.AddDate(0, 0, 3)
	far := now.AddDate(0, 2, 0)
	ending := repo.add(entity.BookingStatusActive, now.AddDate(0, -1, 0), &soon)
	repo.add(entity.BookingStatusActive, now.AddDate(0, -1, 0), &far)
	repo.add(entity.BookingStatusActive, now.AddDate(0, -1, 0), nil)

	sweeper := newTestSweeper(repo, notify)
	sweeper.SendExpiryWarnings(context.Background(), now)

	if len(notify.warnings) != 1 || notify.warnings[0] != ending.ID {
		t.Errorf("warnings = %v, want exactly the booking ending within the window", notify.warnings)
	}
}
