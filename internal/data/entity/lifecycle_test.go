package entity

import (
	"testing"
	"time"
)

func TestNextStatusTable(t *testing.T) {
	cases := []struct {
		from  BookingStatus
		event BookingEvent
		to    BookingStatus
		ok    bool
	}{
		{BookingStatusPending, EventPaymentSucceeded, BookingStatusAwaitingApproval, true},
		{BookingStatusPending, EventPaymentFailed, BookingStatusFailed, true},
		{BookingStatusPending, EventEndDateReached, BookingStatusExpired, true},
		{BookingStatusPending, EventCancelledByUser, BookingStatusCancelled, true},
		{BookingStatusPending, EventCancelledByAdmin, BookingStatusCancelled, true},
		{BookingStatusPending, EventTripCompleted, BookingStatusCompleted, true},
		{BookingStatusPending, EventStartDateReached, "", false},

		{BookingStatusAwaitingApproval, EventStartDateReached, BookingStatusActive, true},
		{BookingStatusAwaitingApproval, EventCancelledByUser, BookingStatusCancelled, true},
		{BookingStatusAwaitingApproval, EventCancelledByAdmin, BookingStatusCancelled, true},
		{BookingStatusAwaitingApproval, EventPaymentSucceeded, "", false},
		{BookingStatusAwaitingApproval, EventEndDateReached, "", false},
		{BookingStatusAwaitingApproval, EventTripCompleted, "", false},

		{BookingStatusActive, EventEndDateReached, BookingStatusExpired, true},
		{BookingStatusActive, EventTripCompleted, BookingStatusCompleted, true},
		{BookingStatusActive, EventCancelledByUser, BookingStatusCancelled, true},
		{BookingStatusActive, EventCancelledByAdmin, BookingStatusCancelled, true},
		{BookingStatusActive, EventPaymentSucceeded, "", false},
		{BookingStatusActive, EventStartDateReached, "", false},
	}

	for _, c := range cases {
		got, ok := NextStatus(c.from, c.event)
		if ok != c.ok {
			t.Errorf("%s + %s: allowed = %v, want %v", c.from, c.event, ok, c.ok)
			continue
		}
		if ok && got != c.to {
			t.Errorf("%s + %s: got %s, want %s", c.from, c.event, got, c.to)
		}
	}
}

func TestTerminalStatusesAcceptNothing(t *testing.T) {
	terminals := []BookingStatus{
		BookingStatusCompleted,
		BookingStatusCancelled,
		BookingStatusExpired,
		BookingStatusFailed,
	}
	events := []BookingEvent{
		EventPaymentSucceeded,
		EventPaymentFailed,
		EventStartDateReached,
		EventEndDateReached,
		EventCancelledByUser,
		EventCancelledByAdmin,
		EventTripCompleted,
	}

	for _, status := range terminals {
		if !IsTerminalStatus(status) {
			t.Errorf("%s should be terminal", status)
		}
		for _, event := range events {
			if _, ok := NextStatus(status, event); ok {
				t.Errorf("terminal status %s accepted event %s", status, event)
			}
		}
	}

	if IsTerminalStatus(BookingStatusPending) {
		t.Error("pending should not be terminal")
	}
}

func TestOccupiesSeatOn(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, time.September, d, 0, 0, 0, 0, time.UTC)
	}
	end := day(30)

	cases := []struct {
		name    string
		status  BookingStatus
		start   time.Time
		end     *time.Time
		on      time.Time
		expects bool
	}{
		{"active inside window", BookingStatusActive, day(1), &end, day(15), true},
		{"pending inside window", BookingStatusPending, day(1), &end, day(15), true},
		{"awaiting approval inside window", BookingStatusAwaitingApproval, day(1), &end, day(15), true},
		{"cancelled inside window", BookingStatusCancelled, day(1), &end, day(15), false},
		{"expired inside window", BookingStatusExpired, day(1), &end, day(15), false},
		{"active before start", BookingStatusActive, day(10), &end, day(5), false},
		{"active after end", BookingStatusActive, day(1), &end, time.Date(2026, time.October, 2, 0, 0, 0, 0, time.UTC), false},
		{"open-ended far future", BookingStatusActive, day(1), nil, time.Date(2027, time.June, 1, 0, 0, 0, 0, time.UTC), true},
		{"boundary start day", BookingStatusActive, day(1), &end, day(1), true},
		{"boundary end day", BookingStatusActive, day(1), &end, day(30), true},
	}

	for _, c := range cases {
		b := &Booking{Status: c.status, StartDate: c.start, EndDate: c.end}
		if got := b.OccupiesSeatOn(c.on); got != c.expects {
			t.Errorf("%s: got %v, want %v", c.name, got, c.expects)
		}
	}
}
