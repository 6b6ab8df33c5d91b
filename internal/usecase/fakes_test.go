package usecase

import (
	"context"
	"fmt"
	"time"

	"school-transport/internal/data/entity"
	"school-transport/internal/data/repository"
	"school-transport/pkg/payment"

	"github.com/google/uuid"
)

// In-memory repository fakes. They reproduce the query semantics the SQL
// implementations provide, which is what the services under test rely on.

type fakeBookingRepo struct {
	bookings   map[uuid.UUID]*entity.Booking
	capacities map[uuid.UUID]int
	students   map[uuid.UUID]uuid.UUID // student -> parent, for FindByParentID
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings:   make(map[uuid.UUID]*entity.Booking),
		capacities: make(map[uuid.UUID]int),
		students:   make(map[uuid.UUID]uuid.UUID),
	}
}

func (r *fakeBookingRepo) CreateWithCapacity(ctx context.Context, booking *entity.Booking) error {
	capacity, ok := r.capacities[booking.RouteID]
	if !ok {
		return fmt.Errorf("route %s not found", booking.RouteID.String())
	}
	occupied, _ := r.CountOccupying(ctx, booking.RouteID, booking.StartDate)
	if occupied >= int64(capacity) {
		return repository.ErrRouteFull
	}
	r.bookings[booking.ID] = booking
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.bookings[id], nil
}

func (r *fakeBookingRepo) FindByOrderID(_ context.Context, orderID string) (*entity.Booking, error) {
	for _, b := range r.bookings {
		if b.OrderID == orderID {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) FindByParentID(_ context.Context, parentID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range r.bookings {
		if r.students[b.StudentID] == parentID {
			out = append(out, b)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeBookingRepo) CountByParentID(_ context.Context, parentID uuid.UUID) (int64, error) {
	var n int64
	for _, b := range r.bookings {
		if r.students[b.StudentID] == parentID {
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, bookingID uuid.UUID, status entity.BookingStatus) error {
	b, ok := r.bookings[bookingID]
	if !ok {
		return fmt.Errorf("booking %s not found", bookingID.String())
	}
	b.Status = status
	return nil
}

func (r *fakeBookingRepo) SetStripeCustomerID(_ context.Context, bookingID uuid.UUID, customerID string) error {
	b, ok := r.bookings[bookingID]
	if !ok {
		return fmt.Errorf("booking %s not found", bookingID.String())
	}
	b.StripeCustomerID = &customerID
	return nil
}

func (r *fakeBookingRepo) CountOccupying(_ context.Context, routeID uuid.UUID, onDate time.Time) (int64, error) {
	var n int64
	for _, b := range r.bookings {
		if b.RouteID == routeID && b.OccupiesSeatOn(onDate) {
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) FindDueForActivation(_ context.Context, now time.Time) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range r.bookings {
		if b.Status == entity.BookingStatusAwaitingApproval && !b.StartDate.After(now) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindDueForExpiry(_ context.Context, now time.Time) ([]*entity.Booking, error) {
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

func (r *fakeBookingRepo) FindEndingWithin(_ context.Context, now time.Time, window time.Duration) ([]*entity.Booking, error) {
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

type fakePricingRuleRepo struct {
	rules []*entity.PricingRule
}

func (r *fakePricingRuleRepo) Create(_ context.Context, rule *entity.PricingRule) error {
	r.rules = append(r.rules, rule)
	return nil
}

func (r *fakePricingRuleRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.PricingRule, error) {
	for _, rule := range r.rules {
		if rule.ID == id {
			return rule, nil
		}
	}
	return nil, nil
}

func (r *fakePricingRuleRepo) FindAll(_ context.Context) ([]*entity.PricingRule, error) {
	return r.rules, nil
}

func (r *fakePricingRuleRepo) Update(_ context.Context, rule *entity.PricingRule) error {
	for i, existing := range r.rules {
		if existing.ID == rule.ID {
			r.rules[i] = rule
			return nil
		}
	}
	return fmt.Errorf("pricing rule %s not found", rule.ID.String())
}

func (r *fakePricingRuleRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, rule := range r.rules {
		if rule.ID == id {
			r.rules = append(r.rules[:i], r.rules[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakePricingRuleRepo) FindBestMatch(_ context.Context, planType entity.PlanType, tripType entity.TripType, routeID *uuid.UUID, vehicleType *entity.VehicleType) (*entity.PricingRule, error) {
	var best *entity.PricingRule
	bestScore := -1
	for _, rule := range r.rules {
		if !rule.IsActive || rule.PlanType != planType || rule.TripType != tripType {
			continue
		}
		if rule.RouteID != nil && (routeID == nil || *rule.RouteID != *routeID) {
			continue
		}
		if rule.VehicleType != nil && (vehicleType == nil || *rule.VehicleType != *vehicleType) {
			continue
		}
		score := 0
		if rule.RouteID != nil {
			score += 2
		}
		if rule.VehicleType != nil {
			score++
		}
		if score > bestScore {
			best = rule
			bestScore = score
		}
	}
	return best, nil
}

func (r *fakePricingRuleRepo) FindActiveDuplicate(_ context.Context, rule *entity.PricingRule) (*entity.PricingRule, error) {
	for _, existing := range r.rules {
		if existing.ID == rule.ID || !existing.IsActive {
			continue
		}
		if existing.PlanType != rule.PlanType || existing.TripType != rule.TripType {
			continue
		}
		if equalUUIDPtr(existing.RouteID, rule.RouteID) && equalVehiclePtr(existing.VehicleType, rule.VehicleType) {
			return existing, nil
		}
	}
	return nil, nil
}

func equalUUIDPtr(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalVehiclePtr(a, b *entity.VehicleType) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByRole(_ context.Context, role entity.UserRole) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

type fakeStudentRepo struct {
	students map[uuid.UUID]*entity.Student
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: make(map[uuid.UUID]*entity.Student)}
}

func (r *fakeStudentRepo) Create(_ context.Context, student *entity.Student) error {
	r.students[student.ID] = student
	return nil
}

func (r *fakeStudentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Student, error) {
	return r.students[id], nil
}

func (r *fakeStudentRepo) FindByParentID(_ context.Context, parentID uuid.UUID) ([]*entity.Student, error) {
	var out []*entity.Student
	for _, s := range r.students {
		if s.ParentID == parentID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStudentRepo) Update(_ context.Context, student *entity.Student) error {
	r.students[student.ID] = student
	return nil
}

func (r *fakeStudentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.students, id)
	return nil
}

type fakeRouteRepo struct {
	routes map[uuid.UUID]*entity.Route
}

func newFakeRouteRepo() *fakeRouteRepo {
	return &fakeRouteRepo{routes: make(map[uuid.UUID]*entity.Route)}
}

func (r *fakeRouteRepo) Create(_ context.Context, route *entity.Route) error {
	r.routes[route.ID] = route
	return nil
}

func (r *fakeRouteRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Route, error) {
	return r.routes[id], nil
}

func (r *fakeRouteRepo) FindActive(_ context.Context) ([]*entity.Route, error) {
	var out []*entity.Route
	for _, route := range r.routes {
		if route.IsActive {
			out = append(out, route)
		}
	}
	return out, nil
}

func (r *fakeRouteRepo) FindByDriverID(_ context.Context, driverID uuid.UUID) ([]*entity.Route, error) {
	var out []*entity.Route
	for _, route := range r.routes {
		if route.DriverID != nil && *route.DriverID == driverID {
			out = append(out, route)
		}
	}
	return out, nil
}

func (r *fakeRouteRepo) Update(_ context.Context, route *entity.Route) error {
	r.routes[route.ID] = route
	return nil
}

type fakePickupPointRepo struct {
	points map[uuid.UUID]*entity.PickupPoint
}

func newFakePickupPointRepo() *fakePickupPointRepo {
	return &fakePickupPointRepo{points: make(map[uuid.UUID]*entity.PickupPoint)}
}

func (r *fakePickupPointRepo) Create(_ context.Context, point *entity.PickupPoint) error {
	r.points[point.ID] = point
	return nil
}

func (r *fakePickupPointRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.PickupPoint, error) {
	return r.points[id], nil
}

func (r *fakePickupPointRepo) FindByRouteID(_ context.Context, routeID uuid.UUID) ([]*entity.PickupPoint, error) {
	var out []*entity.PickupPoint
	for _, p := range r.points {
		if p.RouteID == routeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePickupPointRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.points, id)
	return nil
}

type fakeSchoolRepo struct {
	schools map[uuid.UUID]*entity.School
}

func newFakeSchoolRepo() *fakeSchoolRepo {
	return &fakeSchoolRepo{schools: make(map[uuid.UUID]*entity.School)}
}

func (r *fakeSchoolRepo) Create(_ context.Context, school *entity.School) error {
	r.schools[school.ID] = school
	return nil
}

func (r *fakeSchoolRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.School, error) {
	return r.schools[id], nil
}

func (r *fakeSchoolRepo) FindAll(_ context.Context) ([]*entity.School, error) {
	var out []*entity.School
	for _, s := range r.schools {
		out = append(out, s)
	}
	return out, nil
}

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*entity.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*entity.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.Session) error {
	r.sessions[session.Token] = session
	return nil
}

func (r *fakeSessionRepo) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	id, err := uuid.Parse(token)
	if err != nil {
		return nil, nil
	}
	session, ok := r.sessions[id]
	if !ok || session.RevokedAt != nil || session.ExpiresAt.Before(time.Now()) {
		return nil, nil
	}
	return session, nil
}

func (r *fakeSessionRepo) Revoke(_ context.Context, token string) error {
	id, err := uuid.Parse(token)
	if err != nil {
		return fmt.Errorf("invalid token")
	}
	if session, ok := r.sessions[id]; ok {
		now := time.Now()
		session.RevokedAt = &now
	}
	return nil
}

func (r *fakeSessionRepo) RevokeAllUserSessions(_ context.Context, userID uuid.UUID) error {
	now := time.Now()
	for _, session := range r.sessions {
		if session.UserID == userID {
			session.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeSessionRepo) CleanExpiredSessions(_ context.Context) error {
	return nil
}

type fakePaymentRepo struct {
	payments map[uuid.UUID]*entity.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*entity.Payment)}
}

func (r *fakePaymentRepo) Create(_ context.Context, pay *entity.Payment) error {
	r.payments[pay.ID] = pay
	return nil
}

func (r *fakePaymentRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*entity.Payment, error) {
	for _, p := range r.payments {
		if p.BookingID == bookingID {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) FindByPaymentIntentID(_ context.Context, intentID string) (*entity.Payment, error) {
	for _, p := range r.payments {
		if p.StripePaymentIntentID == intentID {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.PaymentStatus) error {
	p, ok := r.payments[id]
	if !ok {
		return fmt.Errorf("payment %s not found", id.String())
	}
	p.Status = status
	return nil
}

type fakeProvider struct {
	charges   []*payment.ChargeRequest
	customers int
	failNext  bool
}

func (p *fakeProvider) CreateCustomer(_ context.Context, req *payment.CustomerRequest) (*payment.CustomerResponse, error) {
	if p.failNext {
		return nil, fmt.Errorf("gateway unavailable")
	}
	p.customers++
	return &payment.CustomerResponse{CustomerID: fmt.Sprintf("cus_%d", p.customers)}, nil
}

func (p *fakeProvider) CreateCharge(_ context.Context, req *payment.ChargeRequest) (*payment.ChargeResponse, error) {
	if p.failNext {
		return nil, fmt.Errorf("gateway unavailable")
	}
	p.charges = append(p.charges, req)
	return &payment.ChargeResponse{
		TransactionID: fmt.Sprintf("pi_%d", len(p.charges)),
		Status:        "requires_payment_method",
		Amount:        req.Amount,
		Currency:      req.Currency,
	}, nil
}

func (p *fakeProvider) RefundCharge(_ context.Context, req *payment.RefundRequest) (*payment.RefundResponse, error) {
	return &payment.RefundResponse{RefundID: "re_1", Status: "succeeded", Amount: req.Amount}, nil
}

func (p *fakeProvider) ValidateWebhook(_ context.Context, payload []byte, signature string) (*payment.WebhookEvent, error) {
	return nil, fmt.Errorf("not implemented in fake")
}

type fakeNotifier struct {
	events   []entity.BookingEvent
	warnings int
}

func (n *fakeNotifier) BookingEvent(_ *entity.Booking, event entity.BookingEvent) error {
	n.events = append(n.events, event)
	return nil
}

func (n *fakeNotifier) ExpiryWarning(_ *entity.Booking, _ time.Time) error {
	n.warnings++
	return nil
}

func (n *fakeNotifier) Close() {}
