package wire

import (
	"school-transport/internal/adaptor"
	"school-transport/internal/data/entity"
	"school-transport/internal/data/repository"
	"school-transport/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireRoute(
	r chi.Router,
	routeHandler *adaptor.RouteHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/routes - Browse active routes with remaining seats
	r.Get("/api/routes", routeHandler.GetRoutes)

	// GET /api/routes/{id} - Route detail with pickup points
	r.Get("/api/routes/{id}", routeHandler.GetRouteByID)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/routes", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.RequireRole(entity.RoleAdmin, log))

		// POST /api/admin/routes - Create route
		r.Post("/", routeHandler.CreateRoute)

		// PUT /api/admin/routes/{id} - Update route (capacity, vehicle, driver)
		r.Put("/{id}", routeHandler.UpdateRoute)

		// POST /api/admin/routes/{id}/pickup-points - Add pickup point
		r.Post("/{id}/pickup-points", routeHandler.AddPickupPoint)

		// DELETE /api/admin/routes/{id}/pickup-points/{pointID} - Remove pickup point
		r.Delete("/{id}/pickup-points/{pointID}", routeHandler.RemovePickupPoint)
	})

	// ==================== DRIVER ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.RequireRole(entity.RoleDriver, log))

		// GET /api/driver/routes - Routes assigned to the driver
		r.Get("/api/driver/routes", routeHandler.GetDriverRoutes)
	})
}
