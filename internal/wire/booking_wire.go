package wire

import (
	"school-transport/internal/adaptor"
	"school-transport/internal/data/entity"
	"school-transport/internal/data/repository"
	"school-transport/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PARENT ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.RequireRole(entity.RoleParent, log))

		// POST /api/bookings - Book a seat on a route
		r.Post("/api/bookings", bookingHandler.CreateBooking)

		// GET /api/user/bookings - View booking history (paginated)
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)

		// PUT /api/user/bookings/{id}/cancel - Cancel own booking
		r.Put("/api/user/bookings/{id}/cancel", bookingHandler.CancelUserBooking)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.RequireRole(entity.RoleAdmin, log))

		// GET /api/admin/bookings/{id} - View any booking
		r.Get("/{id}", bookingHandler.GetBookingByID)

		// PUT /api/admin/bookings/{id}/cancel - Cancel any booking
		r.Put("/{id}/cancel", bookingHandler.CancelBooking)

		// PUT /api/admin/bookings/{id}/activate - Approve start of service
		r.Put("/{id}/activate", bookingHandler.ActivateBooking)
	})

	// ==================== DRIVER ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.RequireRole(entity.RoleDriver, log))

		// PUT /api/driver/bookings/{id}/complete - Mark trip completed
		r.Put("/api/driver/bookings/{id}/complete", bookingHandler.CompleteTrip)
	})
}
