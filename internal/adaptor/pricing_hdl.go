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

type PricingHandler struct {
	service usecase.PricingService
	log     *zap.Logger
}

func NewPricingHandler(service usecase.PricingService, log *zap.Logger) *PricingHandler {
	return &PricingHandler{
		service: service,
		log:     log.With(zap.String("handler", "pricing")),
	}
}

// GetQuote handles GET /api/pricing/quote?plan_type=&trip_type=&route_id= (public)
func (h *PricingHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := request.QuoteRequest{
		PlanType: query.Get("plan_type"),
		TripType: query.Get("trip_type"),
	}
	if routeID := query.Get("route_id"); routeID != "" {
		req.RouteID = &routeID
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	quote, err := h.service.Quote(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "get quote")
		return
	}

	utils.ResponseSuccess(w, "success", quote)
}

// CreateRule handles POST /api/admin/pricing-rules (admin)
func (h *PricingHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePricingRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	rule, err := h.service.CreateRule(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create pricing rule")
		return
	}

	utils.ResponseCreated(w, "success", rule)
}

// ListRules handles GET /api/admin/pricing-rules (admin)
func (h *PricingHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.service.ListRules(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list pricing rules")
		return
	}

	utils.ResponseSuccess(w, "success", rules)
}

// UpdateRule handles PUT /api/admin/pricing-rules/{id} (admin)
func (h *PricingHandler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	ruleID := chi.URLParam(r, "id")
	if ruleID == "" {
		utils.ResponseBadRequest(w, "Rule ID is required", nil)
		return
	}

	var req request.UpdatePricingRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	rule, err := h.service.UpdateRule(r.Context(), ruleID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update pricing rule")
		return
	}

	utils.ResponseSuccess(w, "success", rule)
}

// DeleteRule handles DELETE /api/admin/pricing-rules/{id} (admin)
func (h *PricingHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	ruleID := chi.URLParam(r, "id")
	if ruleID == "" {
		utils.ResponseBadRequest(w, "Rule ID is required", nil)
		return
	}

	if err := h.service.DeleteRule(r.Context(), ruleID); err != nil {
		handleServiceError(w, h.log, err, "delete pricing rule")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
