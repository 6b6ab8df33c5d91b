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

type SchoolRepository interface {
	Create(ctx context.Context, school *entity.School) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.School, error)
	FindAll(ctx context.Context) ([]*entity.School, error)
}

type schoolRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSchoolRepository(db database.PgxIface, log *zap.Logger) SchoolRepository {
	return &schoolRepository{
		db:  db,
		log: log.With(zap.String("repository", "school")),
	}
}

func (r *schoolRepository) Create(ctx context.Context, school *entity.School) error {
	query := `
		INSERT INTO schools (id, name, city, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		school.ID,
		school.Name,
		school.City,
		school.CreatedAt,
		school.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create school",
			zap.Error(err),
			zap.String("name", school.Name),
		)
		return fmt.Errorf("create school %s: %w", school.Name, err)
	}

	return nil
}

func (r *schoolRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.School, error) {
	query := `
		SELECT id, name, city, created_at, updated_at
		FROM schools
		WHERE id = $1 AND deleted_at IS NULL
	`

	var school entity.School
	err := r.db.QueryRow(ctx, query, id).Scan(
		&school.ID,
		&school.Name,
		&school.City,
		&school.CreatedAt,
		&school.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find school by ID",
			zap.Error(err),
			zap.String("school_id", id.String()),
		)
		return nil, fmt.Errorf("find school by ID %s: %w", id.String(), err)
	}

	return &school, nil
}

func (r *schoolRepository) FindAll(ctx context.Context) ([]*entity.School, error) {
	query := `
		SELECT id, name, city, created_at, updated_at
		FROM schools
		WHERE deleted_at IS NULL
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find schools", zap.Error(err))
		return nil, fmt.Errorf("find schools: %w", err)
	}
	defer rows.Close()

	var schools []*entity.School
	for rows.Next() {
		var school entity.School
		err := rows.Scan(
			&school.ID,
			&school.Name,
			&school.City,
			&school.CreatedAt,
			&school.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan school row", zap.Error(err))
			return nil, fmt.Errorf("scan school row: %w", err)
		}
		schools = append(schools, &school)
	}

	return schools, nil
}
