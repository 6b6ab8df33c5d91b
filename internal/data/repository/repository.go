package repository

import (
	"school-transport/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User        UserRepository
	Session     SessionRepository
	School      SchoolRepository
	Student     StudentRepository
	Route       RouteRepository
	PickupPoint PickupPointRepository
	Booking     BookingRepository
	PricingRule PricingRuleRepository
	Payment     PaymentRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:        NewUserRepository(db, log),
		Session:     NewSessionRepository(db, log),
		School:      NewSchoolRepository(db, log),
		Student:     NewStudentRepository(db, log),
		Route:       NewRouteRepository(db, log),
		PickupPoint: NewPickupPointRepository(db, log),
		Booking:     NewBookingRepository(db, log),
		PricingRule: NewPricingRuleRepository(db, log),
		Payment:     NewPaymentRepository(db, log),
	}
}
