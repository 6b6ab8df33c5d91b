package wire

import (
	"school-transport/internal/adaptor"
	"school-transport/internal/data/entity"
	"school-transport/internal/data/repository"
	"school-transport/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireStudent(
	r chi.Router,
	studentHandler *adaptor.StudentHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/schools - List schools for student registration
	r.Get("/api/schools", studentHandler.GetSchools)

	// ==================== PARENT ROUTES ====================
	r.Route("/api/students", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.RequireRole(entity.RoleParent, log))

		// POST /api/students - Register a child
		r.Post("/", studentHandler.CreateStudent)

		// GET /api/students - List own children
		r.Get("/", studentHandler.GetStudents)

		// PUT /api/students/{id} - Update a child
		r.Put("/{id}", studentHandler.UpdateStudent)

		// DELETE /api/students/{id} - Remove a child
		r.Delete("/{id}", studentHandler.DeleteStudent)
	})
}
