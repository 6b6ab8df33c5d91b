package entity

// BookingEvent is something that happens to a booking: a payment outcome,
// a date boundary crossed, or a manual action by a parent, admin or driver.
type BookingEvent string

const (
	EventPaymentSucceeded BookingEvent = "payment_succeeded"
	EventPaymentFailed    BookingEvent = "payment_failed"
	EventStartDateReached BookingEvent = "start_date_reached"
	EventEndDateReached   BookingEvent = "end_date_reached"
	EventCancelledByUser  BookingEvent = "cancelled_by_user"
	EventCancelledByAdmin BookingEvent = "cancelled_by_admin"
	EventTripCompleted    BookingEvent = "trip_completed"
)

// bookingTransitions is the full status machine. The key is the current
// status; missing statuses (completed, cancelled, expired, failed) are
// terminal and accept no event.
var bookingTransitions = map[BookingStatus]map[BookingEvent]BookingStatus{
	BookingStatusPending: {
		EventPaymentSucceeded: BookingStatusAwaitingApproval,
		EventPaymentFailed:    BookingStatusFailed,
		EventEndDateReached:   BookingStatusExpired,
		EventCancelledByUser:  BookingStatusCancelled,
		EventCancelledByAdmin: BookingStatusCancelled,
		EventTripCompleted:    BookingStatusCompleted,
	},
	BookingStatusAwaitingApproval: {
		EventStartDateReached: BookingStatusActive,
		EventCancelledByUser:  BookingStatusCancelled,
		EventCancelledByAdmin: BookingStatusCancelled,
	},
	BookingStatusActive: {
		EventEndDateReached:   BookingStatusExpired,
		EventCancelledByUser:  BookingStatusCancelled,
		EventCancelledByAdmin: BookingStatusCancelled,
		EventTripCompleted:    BookingStatusCompleted,
	},
}

// NextStatus returns the status the booking moves to when event occurs in
// the current status. ok is false when the transition is not allowed,
// including every event against a terminal status.
func NextStatus(current BookingStatus, event BookingEvent) (BookingStatus, bool) {
	events, exists := bookingTransitions[current]
	if !exists {
		return "", false
	}
	next, allowed := events[event]
	return next, allowed
}

// IsTerminalStatus reports whether no event can move a booking out of s.
func IsTerminalStatus(s BookingStatus) bool {
	_, exists := bookingTransitions[s]
	return !exists
}
