package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"school-transport/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func seedRule(repo *fakePricingRuleRepo, routeID *uuid.UUID, vehicle *entity.VehicleType, amount float64, active bool) *entity.PricingRule {
	rule := &entity.PricingRule{
		Base:        entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		PlanType:    entity.PlanMonthly,
		TripType:    entity.TripTwoWay,
		RouteID:     routeID,
		VehicleType: vehicle,
		Amount:      amount,
		Currency:    "USD",
		IsActive:    active,
	}
	repo.rules = append(repo.rules, rule)
	return rule
}

func TestResolvePricePrecedence(t *testing.T) {
	routeID := uuid.New()
	bus := entity.VehicleBus
	route := &entity.Route{
		Base:        entity.Base{ID: routeID},
		VehicleType: &bus,
	}

	repo := &fakePricingRuleRepo{}
	seedRule(repo, nil, nil, 100, true)        // global fallback
	seedRule(repo, nil, &bus, 110, true)       // global + vehicle
	seedRule(repo, &routeID, nil, 115, true)   // route + any vehicle
	seedRule(repo, &routeID, &bus, 120, true)  // route + vehicle, most specific

	svc := NewPricingService(repo, newFakeRouteRepo(), nil, zap.NewNop())

	quote, err := svc.ResolvePrice(context.Background(), entity.PlanMonthly, entity.TripTwoWay, route)
	if err != nil {
		t.Fatalf("resolve price: %v", err)
	}
	if quote.Amount != 120 {
		t.Errorf("amount = %v, want 120 (route+vehicle rule wins over global)", quote.Amount)
	}
}

func TestResolvePriceFallsThroughInactiveRule(t *testing.T) {
	routeID := uuid.New()
	bus := entity.VehicleBus
	route := &entity.Route{Base: entity.Base{ID: routeID}, VehicleType: &bus}

	repo := &fakePricingRuleRepo{}
	seedRule(repo, nil, nil, 100, true)
	seedRule(repo, &routeID, &bus, 120, false) // deactivated, must not match

	svc := NewPricingService(repo, newFakeRouteRepo(), nil, zap.NewNop())

	quote, err := svc.ResolvePrice(context.Background(), entity.PlanMonthly, entity.TripTwoWay, route)
	if err != nil {
		t.Fatalf("resolve price: %v", err)
	}
	if quote.Amount != 100 {
		t.Errorf("amount = %v, want 100 (inactive rule must fall through to global)", quote.Amount)
	}
}

func TestResolvePriceRouteWithoutVehicle(t *testing.T) {
	routeID := uuid.New()
	route := &entity.Route{Base: entity.Base{ID: routeID}} // no vehicle assigned

	bus := entity.VehicleBus
	repo := &fakePricingRuleRepo{}
	seedRule(repo, nil, nil, 100, true)
	seedRule(repo, &routeID, &bus, 120, true) // requires a bus; route has none

	svc := NewPricingService(repo, newFakeRouteRepo(), nil, zap.NewNop())

	quote, err := svc.ResolvePrice(context.Background(), entity.PlanMonthly, entity.TripTwoWay, route)
	if err != nil {
		t.Fatalf("resolve price: %v", err)
	}
	if quote.Amount != 100 {
		t.Errorf("amount = %v, want 100 (vehicle-specific rule cannot match a route with no vehicle)", quote.Amount)
	}
}

func TestResolvePriceNotFound(t *testing.T) {
	repo := &fakePricingRuleRepo{}
	svc := NewPricingService(repo, newFakeRouteRepo(), nil, zap.NewNop())

	_, err := svc.ResolvePrice(context.Background(), entity.PlanWeekly, entity.TripOneWay, nil)
	if err == nil {
		t.Fatal("expected pricing not found error")
	}

	var notFound *PricingNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected PricingNotFoundError, got %T: %v", err, err)
	}
	if notFound.PlanType != entity.PlanWeekly {
		t.Errorf("error names plan %s, want weekly", notFound.PlanType)
	}
}

func TestResolvePriceWrongPlanDoesNotMatch(t *testing.T) {
	repo := &fakePricingRuleRepo{}
	seedRule(repo, nil, nil, 100, true) // monthly/two_way only

	svc := NewPricingService(repo, newFakeRouteRepo(), nil, zap.NewNop())

	if _, err := svc.ResolvePrice(context.Background(), entity.PlanAnnual, entity.TripTwoWay, nil); err == nil {
		t.Fatal("annual plan must not match a monthly rule")
	}
}

func TestFormatPrice(t *testing.T) {
	svc := NewPricingService(&fakePricingRuleRepo{}, newFakeRouteRepo(), nil, zap.NewNop())

	cases := []struct {
		amount   float64
		currency string
		want     string
	}{
		{120, "USD", "$120.00"},
		{99.5, "USD", "$99.50"},
		{0, "USD", "$0.00"},
		{75, "EUR", "€75.00"},
		{80, "GBP", "£80.00"},
	}
	for _, tc := range cases {
		if got := svc.FormatPrice(tc.amount, tc.currency); got != tc.want {
			t.Errorf("FormatPrice(%v, %s) = %q, want %q", tc.amount, tc.currency, got, tc.want)
		}
	}
}
