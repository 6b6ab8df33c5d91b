package wire

import (
	"school-transport/internal/adaptor"
	"school-transport/internal/data/entity"
	"school-transport/internal/data/repository"
	"school-transport/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePricing(
	r chi.Router,
	pricingHandler *adaptor.PricingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/pricing/quote - Resolve the price for a plan/trip/route
	r.Get("/api/pricing/quote", pricingHandler.GetQuote)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/pricing-rules", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.RequireRole(entity.RoleAdmin, log))

		// POST /api/admin/pricing-rules - Create rule
		r.Post("/", pricingHandler.CreateRule)

		// GET /api/admin/pricing-rules - List all rules
		r.Get("/", pricingHandler.ListRules)

		// PUT /api/admin/pricing-rules/{id} - Update rule
		r.Put("/{id}", pricingHandler.UpdateRule)

		// DELETE /api/admin/pricing-rules/{id} - Delete rule
		r.Delete("/{id}", pricingHandler.DeleteRule)
	})
}
