package usecase

import (
	"context"
	"fmt"
	"time"

	"school-transport/internal/data/entity"
	"school-transport/internal/data/repository"
	"school-transport/internal/dto/request"
	"school-transport/internal/dto/response"
	"school-transport/internal/metrics"
	"school-transport/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Quote is the resolved charge for one plan/trip/route combination.
type Quote struct {
	PlanType entity.PlanType
	TripType entity.TripType
	Amount   float64
	Currency string
}

type PricingService interface {
	// ResolvePrice picks the most specific active rule: route+vehicle,
	// then route+any-vehicle, then global+vehicle, then global fallback.
	// Route may be nil, in which case only global rules apply.
	ResolvePrice(ctx context.Context, planType entity.PlanType, tripType entity.TripType, route *entity.Route) (*Quote, error)

	// Quote resolves a price from raw request input, looking the route up
	// when one is named.
	Quote(ctx context.Context, req *request.QuoteRequest) (*response.QuoteResponse, error)

	// FormatPrice renders a quote amount for display, e.g. "$120.00".
	FormatPrice(amount float64, currency string) string

	// Admin rule management
	CreateRule(ctx context.Context, req *request.CreatePricingRuleRequest) (*response.PricingRuleResponse, error)
	ListRules(ctx context.Context) ([]response.PricingRuleResponse, error)
	UpdateRule(ctx context.Context, ruleID string, req *request.UpdatePricingRuleRequest) (*response.PricingRuleResponse, error)
	DeleteRule(ctx context.Context, ruleID string) error
}

type pricingService struct {
	rules   repository.PricingRuleRepository
	routes  repository.RouteRepository
	metrics *metrics.Collector
	log     *zap.Logger
}

func NewPricingService(rules repository.PricingRuleRepository, routes repository.RouteRepository, m *metrics.Collector, log *zap.Logger) PricingService {
	return &pricingService{
		rules:   rules,
		routes:  routes,
		metrics: m,
		log:     log.With(zap.String("service", "pricing")),
	}
}

func (s *pricingService) ResolvePrice(ctx context.Context, planType entity.PlanType, tripType entity.TripType, route *entity.Route) (*Quote, error) {
	var routeID *uuid.UUID
	var vehicleType *entity.VehicleType
	if route != nil {
		routeID = &route.ID
		vehicleType = route.VehicleType
	}

	rule, err := s.rules.FindBestMatch(ctx, planType, tripType, routeID, vehicleType)
	if err != nil {
		s.log.Error("Failed to look up pricing rule",
			zap.Error(err),
			zap.String("plan_type", string(planType)),
			zap.String("trip_type", string(tripType)),
		)
		return nil, fmt.Errorf("look up pricing rule: %w", err)
	}

	if rule == nil {
		if s.metrics != nil {
			s.metrics.PricingMisses.Inc()
		}
		s.log.Warn("No pricing rule matched",
			zap.String("plan_type", string(planType)),
			zap.String("trip_type", string(tripType)),
		)
		return nil, &PricingNotFoundError{PlanType: planType}
	}

	return &Quote{
		PlanType: planType,
		TripType: tripType,
		Amount:   rule.Amount,
		Currency: rule.Currency,
	}, nil
}

func (s *pricingService) Quote(ctx context.Context, req *request.QuoteRequest) (*response.QuoteResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	var route *entity.Route
	if req.RouteID != nil {
		routeID, err := uuid.Parse(*req.RouteID)
		if err != nil {
			return nil, fmt.Errorf("invalid route ID format %s: %w", *req.RouteID, err)
		}
		route, err = s.routes.FindByID(ctx, routeID)
		if err != nil || route == nil {
			return nil, fmt.Errorf("route %s not found", *req.RouteID)
		}
	}

	quote, err := s.ResolvePrice(ctx, entity.PlanType(req.PlanType), entity.TripType(req.TripType), route)
	if err != nil {
		return nil, err
	}

	return &response.QuoteResponse{
		PlanType:  string(quote.PlanType),
		TripType:  string(quote.TripType),
		Amount:    quote.Amount,
		Currency:  quote.Currency,
		Formatted: s.FormatPrice(quote.Amount, quote.Currency),
	}, nil
}

func (s *pricingService) FormatPrice(amount float64, currency string) string {
	return utils.FormatCurrency(amount, currency)
}

func (s *pricingService) CreateRule(ctx context.Context, req *request.CreatePricingRuleRequest) (*response.PricingRuleResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create pricing rule validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	now := time.Now()
	rule := &entity.PricingRule{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		PlanType: entity.PlanType(req.PlanType),
		TripType: entity.TripType(req.TripType),
		Amount:   req.Amount,
		Currency: req.Currency,
		IsActive: req.IsActive,
	}

	if req.RouteID != nil {
		routeID, err := uuid.Parse(*req.RouteID)
		if err != nil {
			return nil, fmt.Errorf("invalid route ID format %s: %w", *req.RouteID, err)
		}
		rule.RouteID = &routeID
	}
	if req.VehicleType != nil {
		vt := entity.VehicleType(*req.VehicleType)
		rule.VehicleType = &vt
	}

	if rule.IsActive {
		if err := s.checkUnique(ctx, rule); err != nil {
			return nil, err
		}
	}

	if err := s.rules.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("create pricing rule: %w", err)
	}

	s.log.Info("Pricing rule created",
		zap.String("rule_id", rule.ID.String()),
		zap.String("plan_type", string(rule.PlanType)),
		zap.String("trip_type", string(rule.TripType)),
		zap.Float64("amount", rule.Amount),
	)

	resp := response.PricingRuleToResponse(rule)
	return &resp, nil
}

func (s *pricingService) ListRules(ctx context.Context) ([]response.PricingRuleResponse, error) {
	rules, err := s.rules.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pricing rules: %w", err)
	}

	responses := make([]response.PricingRuleResponse, len(rules))
	for i, rule := range rules {
		responses[i] = response.PricingRuleToResponse(rule)
	}

	return responses, nil
}

func (s *pricingService) UpdateRule(ctx context.Context, ruleID string, req *request.UpdatePricingRuleRequest) (*response.PricingRuleResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update pricing rule validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(ruleID)
	if err != nil {
		return nil, fmt.Errorf("invalid rule ID format %s: %w", ruleID, err)
	}

	rule, err := s.rules.FindByID(ctx, id)
	if err != nil || rule == nil {
		return nil, fmt.Errorf("pricing rule %s not found", ruleID)
	}

	rule.Amount = req.Amount
	rule.Currency = req.Currency
	rule.IsActive = req.IsActive
	rule.UpdatedAt = time.Now()

	// Re-activating a rule must not collide with another active rule on
	// the same tuple.
	if rule.IsActive {
		if err := s.checkUnique(ctx, rule); err != nil {
			return nil, err
		}
	}

	if err := s.rules.Update(ctx, rule); err != nil {
		return nil, fmt.Errorf("update pricing rule %s: %w", ruleID, err)
	}

	s.log.Info("Pricing rule updated",
		zap.String("rule_id", rule.ID.String()),
		zap.Float64("amount", rule.Amount),
		zap.Bool("is_active", rule.IsActive),
	)

	resp := response.PricingRuleToResponse(rule)
	return &resp, nil
}

func (s *pricingService) DeleteRule(ctx context.Context, ruleID string) error {
	id, err := uuid.Parse(ruleID)
	if err != nil {
		return fmt.Errorf("invalid rule ID format %s: %w", ruleID, err)
	}

	if err := s.rules.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete pricing rule %s: %w", ruleID, err)
	}

	s.log.Info("Pricing rule deleted", zap.String("rule_id", ruleID))
	return nil
}

func (s *pricingService) checkUnique(ctx context.Context, rule *entity.PricingRule) error {
	dup, err := s.rules.FindActiveDuplicate(ctx, rule)
	if err != nil {
		return fmt.Errorf("check duplicate pricing rule: %w", err)
	}
	if dup != nil {
		return fmt.Errorf("an active pricing rule already exists for plan %s, trip %s on the same route/vehicle scope",
			string(rule.PlanType), string(rule.TripType))
	}
	return nil
}
