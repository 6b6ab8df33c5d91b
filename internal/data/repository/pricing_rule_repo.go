package repository

import (
	"context"
	"fmt"

	"school-transport/internal/data/entity"
	"school-transport/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PricingRuleRepository interface {
	Create(ctx context.Context, rule *entity.PricingRule) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.PricingRule, error)
	FindAll(ctx context.Context) ([]*entity.PricingRule, error)
	Update(ctx context.Context, rule *entity.PricingRule) error
	Delete(ctx context.Context, id uuid.UUID) error

	// FindBestMatch returns the single most specific active rule for the
	// plan/trip pair, or nil when none matches.
	FindBestMatch(ctx context.Context, planType entity.PlanType, tripType entity.TripType, routeID *uuid.UUID, vehicleType *entity.VehicleType) (*entity.PricingRule, error)

	// FindActiveDuplicate returns an active rule occupying the exact same
	// (plan_type, trip_type, route_id, vehicle_type) tuple, excluding the
	// given rule ID.
	FindActiveDuplicate(ctx context.Context, rule *entity.PricingRule) (*entity.PricingRule, error)
}

type pricingRuleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPricingRuleRepository(db database.PgxIface, log *zap.Logger) PricingRuleRepository {
	return &pricingRuleRepository{
		db:  db,
		log: log.With(zap.String("repository", "pricing_rule")),
	}
}

const pricingRuleColumns = `id, plan_type, trip_type, route_id, vehicle_type, amount, currency, is_active, created_at, updated_at`

func (r *pricingRuleRepository) Create(ctx context.Context, rule *entity.PricingRule) error {
	query := `
		INSERT INTO pricing_rules (id, plan_type, trip_type, route_id, vehicle_type,
		                           amount, currency, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		rule.ID,
		rule.PlanType,
		rule.TripType,
		rule.RouteID,
		rule.VehicleType,
		rule.Amount,
		rule.Currency,
		rule.IsActive,
		rule.CreatedAt,
		rule.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create pricing rule",
			zap.Error(err),
			zap.String("plan_type", string(rule.PlanType)),
			zap.String("trip_type", string(rule.TripType)),
		)
		return fmt.Errorf("create pricing rule for plan %s: %w", string(rule.PlanType), err)
	}

	return nil
}

func (r *pricingRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.PricingRule, error) {
	query := `
		SELECT ` + pricingRuleColumns + `
		FROM pricing_rules
		WHERE id = $1 AND deleted_at IS NULL
	`

	var rule entity.PricingRule
	err := r.db.QueryRow(ctx, query, id).Scan(pricingRuleFields(&rule)...)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find pricing rule by ID",
			zap.Error(err),
			zap.String("rule_id", id.String()),
		)
		return nil, fmt.Errorf("find pricing rule by ID %s: %w", id.String(), err)
	}

	return &rule, nil
}

func (r *pricingRuleRepository) FindAll(ctx context.Context) ([]*entity.PricingRule, error) {
	query := `
		SELECT ` + pricingRuleColumns + `
		FROM pricing_rules
		WHERE deleted_at IS NULL
		ORDER BY plan_type, trip_type, created_at
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find pricing rules", zap.Error(err))
		return nil, fmt.Errorf("find pricing rules: %w", err)
	}
	defer rows.Close()

	var rules []*entity.PricingRule
	for rows.Next() {
		var rule entity.PricingRule
		if err := rows.Scan(pricingRuleFields(&rule)...); err != nil {
			r.log.Error("Failed to scan pricing rule row", zap.Error(err))
			return nil, fmt.Errorf("scan pricing rule row: %w", err)
		}
		rules = append(rules, &rule)
	}

	return rules, nil
}

func (r *pricingRuleRepository) Update(ctx context.Context, rule *entity.PricingRule) error {
	query := `
		UPDATE pricing_rules
		SET plan_type = $2, trip_type = $3, route_id = $4, vehicle_type = $5,
		    amount = $6, currency = $7, is_active = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		rule.ID,
		rule.PlanType,
		rule.TripType,
		rule.RouteID,
		rule.VehicleType,
		rule.Amount,
		rule.Currency,
		rule.IsActive,
		rule.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update pricing rule",
			zap.Error(err),
			zap.String("rule_id", rule.ID.String()),
		)
		return fmt.Errorf("update pricing rule %s: %w", rule.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("pricing rule %s not found", rule.ID.String())
	}

	return nil
}

func (r *pricingRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE pricing_rules SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete pricing rule",
			zap.Error(err),
			zap.String("rule_id", id.String()),
		)
		return fmt.Errorf("delete pricing rule %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("pricing rule %s not found", id.String())
	}

	return nil
}

// FindBestMatch resolves precedence in one query: a route-specific rule
// beats a global one, and within each of those an exact vehicle match
// beats a vehicle wildcard.
func (r *pricingRuleRepository) FindBestMatch(ctx context.Context, planType entity.PlanType, tripType entity.TripType, routeID *uuid.UUID, vehicleType *entity.VehicleType) (*entity.PricingRule, error) {
	query := `
		SELECT ` + pricingRuleColumns + `
		FROM pricing_rules
		WHERE plan_type = $1
		  AND trip_type = $2
		  AND is_active = true
		  AND (route_id = $3 OR route_id IS NULL)
		  AND (vehicle_type = $4 OR vehicle_type IS NULL)
		  AND deleted_at IS NULL
		ORDER BY (route_id IS NOT NULL) DESC, (vehicle_type IS NOT NULL) DESC
		LIMIT 1
	`

	var rule entity.PricingRule
	err := r.db.QueryRow(ctx, query, planType, tripType, routeID, vehicleType).Scan(pricingRuleFields(&rule)...)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find best pricing rule",
			zap.Error(err),
			zap.String("plan_type", string(planType)),
			zap.String("trip_type", string(tripType)),
		)
		return nil, fmt.Errorf("find best pricing rule for plan %s: %w", string(planType), err)
	}

	return &rule, nil
}

func (r *pricingRuleRepository) FindActiveDuplicate(ctx context.Context, rule *entity.PricingRule) (*entity.PricingRule, error) {
	query := `
		SELECT ` + pricingRuleColumns + `
		FROM pricing_rules
		WHERE plan_type = $1
		  AND trip_type = $2
		  AND route_id IS NOT DISTINCT FROM $3
		  AND vehicle_type IS NOT DISTINCT FROM $4
		  AND is_active = true
		  AND id <> $5
		  AND deleted_at IS NULL
		LIMIT 1
	`

	var dup entity.PricingRule
	err := r.db.QueryRow(ctx, query,
		rule.PlanType,
		rule.TripType,
		rule.RouteID,
		rule.VehicleType,
		rule.ID,
	).Scan(pricingRuleFields(&dup)...)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to check for duplicate pricing rule", zap.Error(err))
		return nil, fmt.Errorf("check duplicate pricing rule: %w", err)
	}

	return &dup, nil
}

func pricingRuleFields(rule *entity.PricingRule) []any {
	return []any{
		&rule.ID,
		&rule.PlanType,
		&rule.TripType,
		&rule.RouteID,
		&rule.VehicleType,
		&rule.Amount,
		&rule.Currency,
		&rule.IsActive,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	}
}
