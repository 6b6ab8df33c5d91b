package usecase

import (
	"school-transport/internal/data/repository"
	"school-transport/internal/metrics"
	"school-transport/internal/notifier"
	"school-transport/pkg/payment"
	"school-transport/pkg/utils"

	"go.uber.org/zap"
)

// Service bundles every use case for injection into the HTTP layer.
type Service struct {
	Auth      AuthService
	Student   StudentService
	Route     RouteService
	Pricing   PricingService
	Capacity  CapacityService
	Lifecycle LifecycleService
	Booking   BookingService
}

func NewService(
	repo *repository.Repository,
	provider payment.Provider,
	notify notifier.Notifier,
	m *metrics.Collector,
	cfg *utils.Config,
	log *zap.Logger,
) *Service {
	pricing := NewPricingService(repo.PricingRule, repo.Route, m, log)
	capacity := NewCapacityService(repo.Booking, log)
	lifecycle := NewLifecycleService(repo.Booking, log)

	return &Service{
		Auth:      NewAuthService(repo.User, repo.Session, cfg.Session.ExpiryHours, log),
		Student:   NewStudentService(repo.Student, repo.School, log),
		Route:     NewRouteService(repo.Route, repo.PickupPoint, repo.User, capacity, log),
		Pricing:   pricing,
		Capacity:  capacity,
		Lifecycle: lifecycle,
		Booking:   NewBookingService(repo, pricing, lifecycle, provider, notify, m, log),
	}
}
