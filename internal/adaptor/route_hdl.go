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

type RouteHandler struct {
	service usecase.RouteService
	log     *zap.Logger
}

func NewRouteHandler(service usecase.RouteService, log *zap.Logger) *RouteHandler {
	return &RouteHandler{
		service: service,
		log:     log.With(zap.String("handler", "route")),
	}
}

// GetRoutes handles GET /api/routes (public)
func (h *RouteHandler) GetRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := h.service.GetActiveRoutes(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get routes")
		return
	}

	utils.ResponseSuccess(w, "success", routes)
}

// GetRouteByID handles GET /api/routes/{id} (public)
func (h *RouteHandler) GetRouteByID(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "id")
	if routeID == "" {
		utils.ResponseBadRequest(w, "Route ID is required", nil)
		return
	}

	route, err := h.service.GetRouteByID(r.Context(), routeID)
	if err != nil {
		handleServiceError(w, h.log, err, "get route")
		return
	}

	utils.ResponseSuccess(w, "success", route)
}

// CreateRoute handles POST /api/admin/routes (admin)
func (h *RouteHandler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	route, err := h.service.CreateRoute(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create route")
		return
	}

	utils.ResponseCreated(w, "success", route)
}

// UpdateRoute handles PUT /api/admin/routes/{id} (admin)
func (h *RouteHandler) UpdateRoute(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "id")
	if routeID == "" {
		utils.ResponseBadRequest(w, "Route ID is required", nil)
		return
	}

	var req request.UpdateRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	route, err := h.service.UpdateRoute(r.Context(), routeID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update route")
		return
	}

	utils.ResponseSuccess(w, "success", route)
}

// AddPickupPoint handles POST /api/admin/routes/{id}/pickup-points (admin)
func (h *RouteHandler) AddPickupPoint(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "id")
	if routeID == "" {
		utils.ResponseBadRequest(w, "Route ID is required", nil)
		return
	}

	var req request.CreatePickupPointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	point, err := h.service.AddPickupPoint(r.Context(), routeID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "add pickup point")
		return
	}

	utils.ResponseCreated(w, "success", point)
}

// RemovePickupPoint handles DELETE /api/admin/routes/{id}/pickup-points/{pointID} (admin)
func (h *RouteHandler) RemovePickupPoint(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "id")
	pointID := chi.URLParam(r, "pointID")
	if routeID == "" || pointID == "" {
		utils.ResponseBadRequest(w, "Route ID and pickup point ID are required", nil)
		return
	}

	if err := h.service.RemovePickupPoint(r.Context(), routeID, pointID); err != nil {
		handleServiceError(w, h.log, err, "remove pickup point")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// GetDriverRoutes handles GET /api/driver/routes (driver)
func (h *RouteHandler) GetDriverRoutes(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	routes, err := h.service.GetDriverRoutes(r.Context(), userID.String())
	if err != nil {
		handleServiceError(w, h.log, err, "get driver routes")
		return
	}

	utils.ResponseSuccess(w, "success", routes)
}
