package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending          BookingStatus = "pending"
	BookingStatusAwaitingApproval BookingStatus = "awaiting_approval"
	BookingStatusActive           BookingStatus = "active"
	BookingStatusCompleted        BookingStatus = "completed"
	BookingStatusCancelled        BookingStatus = "cancelled"
	BookingStatusExpired          BookingStatus = "expired"
	BookingStatusFailed           BookingStatus = "failed"
)

type PlanType string

const (
	PlanWeekly  PlanType = "weekly"
	PlanMonthly PlanType = "monthly"
	PlanTerm    PlanType = "term"
	PlanAnnual  PlanType = "annual"
)

type TripType string

const (
	TripOneWay TripType = "one_way"
	TripTwoWay TripType = "two_way"
)

type Booking struct {
	Base
	OrderID          string        `db:"order_id"`
	StudentID        uuid.UUID     `db:"student_id"`
	RouteID          uuid.UUID     `db:"route_id"`
	PickupPointID    uuid.UUID     `db:"pickup_point_id"`
	PlanType         PlanType      `db:"plan_type"`
	TripType         TripType      `db:"trip_type"`
	Status           BookingStatus `db:"status"`
	StartDate        time.Time     `db:"start_date"`
	EndDate          *time.Time    `db:"end_date"` // nil = open-ended subscription
	Amount           float64       `db:"amount"`
	Currency         string        `db:"currency"`
	StripeCustomerID *string       `db:"stripe_customer_id"`
}

// SeatOccupyingStatuses are the statuses that count against route capacity.
var SeatOccupyingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusAwaitingApproval,
	BookingStatusActive,
}

// OccupiesSeatOn reports whether the booking holds a seat on its route on
// the given date: the status must be seat-occupying and the date must fall
// inside [StartDate, EndDate]. An open-ended booking occupies from
// StartDate onward.
func (b *Booking) OccupiesSeatOn(date time.Time) bool {
	occupying := false
	for _, s := range SeatOccupyingStatuses {
		if b.Status == s {
			occupying = true
			break
		}
	}
	if !occupying {
		return false
	}
	if date.Before(b.StartDate) {
		return false
	}
	if b.EndDate != nil && date.After(*b.EndDate) {
		return false
	}
	return true
}
