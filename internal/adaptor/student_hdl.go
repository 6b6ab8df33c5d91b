package adaptor

import (
	"encoding/json"
	"net/http"

	"school-transport/internal/dto/request"
	"school-transport/internal/usecase"
	"school-transport/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type StudentHandler struct {
	service usecase.StudentService
	log     *zap.Logger
}

func NewStudentHandler(service usecase.StudentService, log *zap.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		log:     log.With(zap.String("handler", "student")),
	}
}

// GetSchools handles GET /api/schools (public)
func (h *StudentHandler) GetSchools(w http.ResponseWriter, r *http.Request) {
	schools, err := h.service.ListSchools(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list schools")
		return
	}

	utils.ResponseSuccess(w, "success", schools)
}

// CreateStudent handles POST /api/students (parent)
func (h *StudentHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	student, err := h.service.CreateStudent(r.Context(), userID.String(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create student")
		return
	}

	utils.ResponseCreated(w, "success", student)
}

// GetStudents handles GET /api/students (parent)
func (h *StudentHandler) GetStudents(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	students, err := h.service.GetStudents(r.Context(), userID.String())
	if err != nil {
		handleServiceError(w, h.log, err, "get students")
		return
	}

	utils.ResponseSuccess(w, "success", students)
}

// UpdateStudent handles PUT /api/students/{id} (parent)
func (h *StudentHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	studentID := chi.URLParam(r, "id")
	if studentID == "" {
		utils.ResponseBadRequest(w, "Student ID is required", nil)
		return
	}

	var req request.UpdateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	student, err := h.service.UpdateStudent(r.Context(), userID.String(), studentID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update student")
		return
	}

	utils.ResponseSuccess(w, "success", student)
}

// DeleteStudent handles DELETE /api/students/{id} (parent)
func (h *StudentHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	studentID := chi.URLParam(r, "id")
	if studentID == "" {
		utils.ResponseBadRequest(w, "Student ID is required", nil)
		return
	}

	if err := h.service.DeleteStudent(r.Context(), userID.String(), studentID); err != nil {
		handleServiceError(w, h.log, err, "delete student")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
