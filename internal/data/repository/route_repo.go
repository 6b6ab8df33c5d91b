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

type RouteRepository interface {
	Create(ctx context.Context, route *entity.Route) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Route, error)
	FindActive(ctx context.Context) ([]*entity.Route, error)
	FindByDriverID(ctx context.Context, driverID uuid.UUID) ([]*entity.Route, error)
	Update(ctx context.Context, route *entity.Route) error
}

type routeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRouteRepository(db database.PgxIface, log *zap.Logger) RouteRepository {
	return &routeRepository{
		db:  db,
		log: log.With(zap.String("repository", "route")),
	}
}

func (r *routeRepository) Create(ctx context.Context, route *entity.Route) error {
	query := `
		INSERT INTO routes (id, name, capacity, vehicle_type, driver_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		route.ID,
		route.Name,
		route.Capacity,
		route.VehicleType,
		route.DriverID,
		route.IsActive,
		route.CreatedAt,
		route.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create route",
			zap.Error(err),
			zap.String("name", route.Name),
		)
		return fmt.Errorf("create route %s: %w", route.Name, err)
	}

	return nil
}

func (r *routeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Route, error) {
	query := `
		SELECT id, name, capacity, vehicle_type, driver_id, is_active, created_at, updated_at
		FROM routes
		WHERE id = $1 AND deleted_at IS NULL
	`

	var route entity.Route
	err := r.db.QueryRow(ctx, query, id).Scan(
		&route.ID,
		&route.Name,
		&route.Capacity,
		&route.VehicleType,
		&route.DriverID,
		&route.IsActive,
		&route.CreatedAt,
		&route.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find route by ID",
			zap.Error(err),
			zap.String("route_id", id.String()),
		)
		return nil, fmt.Errorf("find route by ID %s: %w", id.String(), err)
	}

	return &route, nil
}

func (r *routeRepository) FindActive(ctx context.Context) ([]*entity.Route, error) {
	query := `
		SELECT id, name, capacity, vehicle_type, driver_id, is_active, created_at, updated_at
		FROM routes
		WHERE is_active = true AND deleted_at IS NULL
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find active routes", zap.Error(err))
		return nil, fmt.Errorf("find active routes: %w", err)
	}
	defer rows.Close()

	return scanRoutes(rows, r.log)
}

func (r *routeRepository) FindByDriverID(ctx context.Context, driverID uuid.UUID) ([]*entity.Route, error) {
	query := `
		SELECT id, name, capacity, vehicle_type, driver_id, is_active, created_at, updated_at
		FROM routes
		WHERE driver_id = $1 AND deleted_at IS NULL
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, driverID)
	if err != nil {
		r.log.Error("Failed to find routes by driver ID",
			zap.Error(err),
			zap.String("driver_id", driverID.String()),
		)
		return nil, fmt.Errorf("find routes by driver ID %s: %w", driverID.String(), err)
	}
	defer rows.Close()

	return scanRoutes(rows, r.log)
}

func (r *routeRepository) Update(ctx context.Context, route *entity.Route) error {
	query := `
		UPDATE routes
		SET name = $2, capacity = $3, vehicle_type = $4, driver_id = $5,
		    is_active = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		route.ID,
		route.Name,
		route.Capacity,
		route.VehicleType,
		route.DriverID,
		route.IsActive,
		route.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update route",
			zap.Error(err),
			zap.String("route_id", route.ID.String()),
		)
		return fmt.Errorf("update route %s: %w", route.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("route %s not found", route.ID.String())
	}

	return nil
}

func scanRoutes(rows pgx.Rows, log *zap.Logger) ([]*entity.Route, error) {
	var routes []*entity.Route
	for rows.Next() {
		var route entity.Route
		err := rows.Scan(
			&route.ID,
			&route.Name,
			&route.Capacity,
			&route.VehicleType,
			&route.DriverID,
			&route.IsActive,
			&route.CreatedAt,
			&route.UpdatedAt,
		)
		if err != nil {
			log.Error("Failed to scan route row", zap.Error(err))
			return nil, fmt.Errorf("scan route row: %w", err)
		}
		routes = append(routes, &route)
	}

	return routes, nil
}
