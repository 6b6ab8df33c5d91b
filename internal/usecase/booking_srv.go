package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"school-transport/internal/data/entity"
	"school-transport/internal/data/repository"
	"school-transport/internal/dto/request"
	"school-transport/internal/dto/response"
	"school-transport/internal/metrics"
	"school-transport/internal/notifier"
	"school-transport/pkg/payment"
	"school-transport/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// Parent endpoints
	CreateBooking(ctx context.Context, parentID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, parentID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	CancelUserBooking(ctx context.Context, parentID, bookingID string) error

	// Admin endpoints
	GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, bookingID string) error
	ApproveBooking(ctx context.Context, bookingID string) error

	// Driver endpoint
	CompleteTrip(ctx context.Context, driverID, bookingID string) error

	// Payment webhook
	HandlePaymentEvent(ctx context.Context, event *payment.WebhookEvent) error
}

type bookingService struct {
	repo      *repository.Repository
	pricing   PricingService
	lifecycle LifecycleService
	provider  payment.Provider
	notify    notifier.Notifier
	metrics   *metrics.Collector
	log       *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	pricing PricingService,
	lifecycle LifecycleService,
	provider payment.Provider,
	notify notifier.Notifier,
	m *metrics.Collector,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:      repo,
		pricing:   pricing,
		lifecycle: lifecycle,
		provider:  provider,
		notify:    notify,
		metrics:   m,
		log:       log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, parentID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	parentUUID, err := uuid.Parse(parentID)
	if err != nil {
		return nil, fmt.Errorf("invalid parent ID format %s: %w", parentID, err)
	}

	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("invalid student ID format %s: %w", req.StudentID, err)
	}

	routeID, err := uuid.Parse(req.RouteID)
	if err != nil {
		return nil, fmt.Errorf("invalid route ID format %s: %w", req.RouteID, err)
	}

	pickupPointID, err := uuid.Parse(req.PickupPointID)
	if err != nil {
		return nil, fmt.Errorf("invalid pickup point ID format %s: %w", req.PickupPointID, err)
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %s: %w", req.StartDate, err)
	}

	var endDate *time.Time
	if req.EndDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end date %s: %w", *req.EndDate, err)
		}
		if !parsed.After(startDate) {
			return nil, fmt.Errorf("end date must be after start date")
		}
		endDate = &parsed
	}

	// Ownership: the student must belong to the requesting parent
	student, err := s.repo.Student.FindByID(ctx, studentID)
	if err != nil || student == nil {
		return nil, fmt.Errorf("student %s not found", req.StudentID)
	}
	if student.ParentID != parentUUID {
		return nil, fmt.Errorf("unauthorized to book for this student")
	}

	route, err := s.repo.Route.FindByID(ctx, routeID)
	if err != nil || route == nil {
		return nil, fmt.Errorf("route %s not found", req.RouteID)
	}
	if !route.IsActive {
		return nil, fmt.Errorf("route %s is not active", route.Name)
	}

	point, err := s.repo.PickupPoint.FindByID(ctx, pickupPointID)
	if err != nil || point == nil {
		return nil, fmt.Errorf("pickup point %s not found", req.PickupPointID)
	}
	if point.RouteID != routeID {
		return nil, fmt.Errorf("pickup point %s not on route %s", point.Name, route.Name)
	}

	quote, err := s.pricing.ResolvePrice(ctx, entity.PlanType(req.PlanType), entity.TripType(req.TripType), route)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OrderID:       utils.GenerateOrderID(),
		StudentID:     studentID,
		RouteID:       routeID,
		PickupPointID: pickupPointID,
		PlanType:      entity.PlanType(req.PlanType),
		TripType:      entity.TripType(req.TripType),
		Status:        entity.BookingStatusPending,
		StartDate:     startDate,
		EndDate:       endDate,
		Amount:        quote.Amount,
		Currency:      quote.Currency,
	}

	// Occupancy count and insert run in one transaction under a route row
	// lock; the first committer wins the last seat.
	if err := s.repo.Booking.CreateWithCapacity(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrRouteFull) {
			if s.metrics != nil {
				s.metrics.CapacityRejections.Inc()
			}
			return nil, &CapacityExceededError{RouteID: routeID}
		}
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("route_id", req.RouteID),
			zap.String("student_id", req.StudentID),
		)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("order_id", booking.OrderID),
		zap.String("route_id", req.RouteID),
		zap.String("plan_type", req.PlanType),
		zap.Float64("amount", quote.Amount),
	)

	// Charge asynchronously observed: the booking stays pending until the
	// gateway webhook reports the outcome.
	s.initiateCharge(ctx, booking, parentUUID)

	return s.buildBookingResponse(ctx, booking), nil
}

// initiateCharge creates the gateway customer and payment intent. Gateway
// failures do not roll the booking back; the parent can retry payment and
// the booking expires through the sweep if never paid.
func (s *bookingService) initiateCharge(ctx context.Context, booking *entity.Booking, parentID uuid.UUID) {
	parent, err := s.repo.User.FindByID(ctx, parentID)
	if err != nil || parent == nil {
		s.log.Error("Failed to load parent for charge",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return
	}

	cust, err := s.provider.CreateCustomer(ctx, &payment.CustomerRequest{
		Email: parent.Email,
		Name:  parent.Name,
	})
	if err != nil {
		s.log.Error("Failed to create gateway customer",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return
	}

	if err := s.repo.Booking.SetStripeCustomerID(ctx, booking.ID, cust.CustomerID); err != nil {
		s.log.Error("Failed to store gateway customer ID",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
	}
	booking.StripeCustomerID = &cust.CustomerID

	charge, err := s.provider.CreateCharge(ctx, &payment.ChargeRequest{
		Amount:      booking.Amount,
		Currency:    booking.Currency,
		CustomerID:  cust.CustomerID,
		Description: fmt.Sprintf("School transport %s (%s)", booking.OrderID, string(booking.PlanType)),
		Metadata:    map[string]string{"booking_id": booking.ID.String()},
	})
	if err != nil {
		s.log.Error("Failed to create charge",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return
	}

	now := time.Now()
	pay := &entity.Payment{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingID:             booking.ID,
		Amount:                booking.Amount,
		Currency:              booking.Currency,
		Status:                entity.PaymentStatusPending,
		StripePaymentIntentID: charge.TransactionID,
	}

	if err := s.repo.Payment.Create(ctx, pay); err != nil {
		s.log.Error("Failed to record payment",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
	}
}

func (s *bookingService) GetUserBookings(ctx context.Context, parentID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	parentUUID, err := uuid.Parse(parentID)
	if err != nil {
		return nil, fmt.Errorf("invalid parent ID format %s: %w", parentID, err)
	}

	bookings, err := s.repo.Booking.FindByParentID(ctx, parentUUID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get user bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByParentID(ctx, parentUUID)
	if err != nil {
		return nil, fmt.Errorf("count user bookings: %w", err)
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		bookingResponses[i] = *s.buildBookingResponse(ctx, booking)
	}

	return response.NewPaginatedResponse(bookingResponses, req.Page, req.PerPage, total), nil
}

func (s *bookingService) CancelUserBooking(ctx context.Context, parentID, bookingID string) error {
	parentUUID, err := uuid.Parse(parentID)
	if err != nil {
		return fmt.Errorf("invalid parent ID format %s: %w", parentID, err)
	}

	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	student, err := s.repo.Student.FindByID(ctx, booking.StudentID)
	if err != nil || student == nil {
		return fmt.Errorf("student for booking %s not found", bookingID)
	}
	if student.ParentID != parentUUID {
		return fmt.Errorf("unauthorized to cancel this booking")
	}

	return s.applyEvent(ctx, booking, entity.EventCancelledByUser)
}

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	return s.buildBookingResponse(ctx, booking), nil
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID string) error {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	return s.applyEvent(ctx, booking, entity.EventCancelledByAdmin)
}

// ApproveBooking is the manual activation path: an admin confirms the
// booking whose start date has arrived.
func (s *bookingService) ApproveBooking(ctx context.Context, bookingID string) error {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	return s.applyEvent(ctx, booking, entity.EventStartDateReached)
}

func (s *bookingService) CompleteTrip(ctx context.Context, driverID, bookingID string) error {
	driverUUID, err := uuid.Parse(driverID)
	if err != nil {
		return fmt.Errorf("invalid driver ID format %s: %w", driverID, err)
	}

	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	route, err := s.repo.Route.FindByID(ctx, booking.RouteID)
	if err != nil || route == nil {
		return fmt.Errorf("route for booking %s not found", bookingID)
	}
	if route.DriverID == nil || *route.DriverID != driverUUID {
		return fmt.Errorf("unauthorized to complete trips on this route")
	}

	return s.applyEvent(ctx, booking, entity.EventTripCompleted)
}

// HandlePaymentEvent processes a verified gateway webhook. A replayed
// event whose payment record already carries the final status is treated
// as idempotent: no second transition, no second notification.
func (s *bookingService) HandlePaymentEvent(ctx context.Context, event *payment.WebhookEvent) error {
	bookingIDStr, ok := event.Metadata["booking_id"]
	if !ok {
		return fmt.Errorf("payment event %s carries no booking_id", event.EventID)
	}

	bookingID, err := uuid.Parse(bookingIDStr)
	if err != nil {
		return fmt.Errorf("invalid booking ID in payment event %s: %w", event.EventID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil || booking == nil {
		return fmt.Errorf("booking %s not found for payment event", bookingIDStr)
	}

	var bookingEvent entity.BookingEvent
	var paymentStatus entity.PaymentStatus
	switch event.EventType {
	case payment.EventPaymentSucceeded:
		bookingEvent = entity.EventPaymentSucceeded
		paymentStatus = entity.PaymentStatusSucceeded
	case payment.EventPaymentFailed:
		bookingEvent = entity.EventPaymentFailed
		paymentStatus = entity.PaymentStatusFailed
	default:
		// Not a payment outcome; nothing to do.
		return nil
	}

	pay, err := s.repo.Payment.FindByPaymentIntentID(ctx, event.TransactionID)
	if err != nil {
		return fmt.Errorf("find payment for intent %s: %w", event.TransactionID, err)
	}
	if pay != nil && pay.Status == paymentStatus {
		s.log.Info("Payment event replayed, already applied",
			zap.String("booking_id", bookingIDStr),
			zap.String("event_id", event.EventID),
		)
		return nil
	}

	if err := s.applyEvent(ctx, booking, bookingEvent); err != nil {
		return err
	}

	if pay != nil {
		if err := s.repo.Payment.UpdateStatus(ctx, pay.ID, paymentStatus); err != nil {
			s.log.Error("Failed to update payment status",
				zap.Error(err),
				zap.String("payment_id", pay.ID.String()),
			)
		}
	}

	return nil
}

// ==================== HELPER METHODS ====================

func (s *bookingService) findBooking(ctx context.Context, bookingID string) (*entity.Booking, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", bookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil || booking == nil {
		return nil, fmt.Errorf("booking %s not found", bookingID)
	}

	return booking, nil
}

// applyEvent runs the lifecycle policy and, on success, publishes the
// notification the policy itself deliberately does not send.
func (s *bookingService) applyEvent(ctx context.Context, booking *entity.Booking, event entity.BookingEvent) error {
	if _, err := s.lifecycle.Transition(ctx, booking, event); err != nil {
		return err
	}

	if s.notify != nil {
		if err := s.notify.BookingEvent(booking, event); err != nil {
			s.log.Warn("Failed to publish booking notification",
				zap.Error(err),
				zap.String("booking_id", booking.ID.String()),
				zap.String("event", string(event)),
			)
		}
	}

	return nil
}

func (s *bookingService) buildBookingResponse(ctx context.Context, booking *entity.Booking) *response.BookingResponse {
	resp := &response.BookingResponse{
		ID:            booking.ID.String(),
		OrderID:       booking.OrderID,
		StudentID:     booking.StudentID.String(),
		RouteID:       booking.RouteID.String(),
		PickupPointID: booking.PickupPointID.String(),
		PlanType:      string(booking.PlanType),
		TripType:      string(booking.TripType),
		Status:        string(booking.Status),
		StartDate:     booking.StartDate.Format("2006-01-02"),
		Amount:        booking.Amount,
		Currency:      booking.Currency,
		Price:         s.pricing.FormatPrice(booking.Amount, booking.Currency),
		CreatedAt:     booking.CreatedAt,
	}

	if booking.EndDate != nil {
		end := booking.EndDate.Format("2006-01-02")
		resp.EndDate = &end
	}

	student, _ := s.repo.Student.FindByID(ctx, booking.StudentID)
	if student != nil {
		resp.StudentName = student.Name
	}

	route, _ := s.repo.Route.FindByID(ctx, booking.RouteID)
	if route != nil {
		resp.RouteName = route.Name
	}

	point, _ := s.repo.PickupPoint.FindByID(ctx, booking.PickupPointID)
	if point != nil {
		resp.PickupPointName = point.Name
	}

	pay, _ := s.repo.Payment.FindByBookingID(ctx, booking.ID)
	if pay != nil {
		payResp := response.PaymentToResponse(pay)
		resp.Payment = &payResp
	}

	return resp
}
