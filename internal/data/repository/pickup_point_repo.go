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

type PickupPointRepository interface {
	Create(ctx context.Context, point *entity.PickupPoint) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.PickupPoint, error)
	FindByRouteID(ctx context.Context, routeID uuid.UUID) ([]*entity.PickupPoint, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type pickupPointRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPickupPointRepository(db database.PgxIface, log *zap.Logger) PickupPointRepository {
	return &pickupPointRepository{
		db:  db,
		log: log.With(zap.String("repository", "pickup_point")),
	}
}

func (r *pickupPointRepository) Create(ctx context.Context, point *entity.PickupPoint) error {
	query := `
		INSERT INTO pickup_points (id, route_id, name, latitude, longitude, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		point.ID,
		point.RouteID,
		point.Name,
		point.Latitude,
		point.Longitude,
		point.CreatedAt,
		point.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create pickup point",
			zap.Error(err),
			zap.String("route_id", point.RouteID.String()),
		)
		return fmt.Errorf("create pickup point %s: %w", point.Name, err)
	}

	return nil
}

func (r *pickupPointRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.PickupPoint, error) {
	query := `
		SELECT id, route_id, name, latitude, longitude, created_at, updated_at
		FROM pickup_points
		WHERE id = $1 AND deleted_at IS NULL
	`

	var point entity.PickupPoint
	err := r.db.QueryRow(ctx, query, id).Scan(
		&point.ID,
		&point.RouteID,
		&point.Name,
		&point.Latitude,
		&point.Longitude,
		&point.CreatedAt,
		&point.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find pickup point by ID",
			zap.Error(err),
			zap.String("pickup_point_id", id.String()),
		)
		return nil, fmt.Errorf("find pickup point by ID %s: %w", id.String(), err)
	}

	return &point, nil
}

func (r *pickupPointRepository) FindByRouteID(ctx context.Context, routeID uuid.UUID) ([]*entity.PickupPoint, error) {
	query := `
		SELECT id, route_id, name, latitude, longitude, created_at, updated_at
		FROM pickup_points
		WHERE route_id = $1 AND deleted_at IS NULL
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, routeID)
	if err != nil {
		r.log.Error("Failed to find pickup points by route ID",
			zap.Error(err),
			zap.String("route_id", routeID.String()),
		)
		return nil, fmt.Errorf("find pickup points by route ID %s: %w", routeID.String(), err)
	}
	defer rows.Close()

	var points []*entity.PickupPoint
	for rows.Next() {
		var point entity.PickupPoint
		err := rows.Scan(
			&point.ID,
			&point.RouteID,
			&point.Name,
			&point.Latitude,
			&point.Longitude,
			&point.CreatedAt,
			&point.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan pickup point row", zap.Error(err))
			return nil, fmt.Errorf("scan pickup point row: %w", err)
		}
		points = append(points, &point)
	}

	return points, nil
}

func (r *pickupPointRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE pickup_points SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete pickup point",
			zap.Error(err),
			zap.String("pickup_point_id", id.String()),
		)
		return fmt.Errorf("delete pickup point %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("pickup point %s not found", id.String())
	}

	return nil
}
