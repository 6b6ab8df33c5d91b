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

type StudentRepository interface {
	Create(ctx context.Context, student *entity.Student) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Student, error)
	FindByParentID(ctx context.Context, parentID uuid.UUID) ([]*entity.Student, error)
	Update(ctx context.Context, student *entity.Student) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type studentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewStudentRepository(db database.PgxIface, log *zap.Logger) StudentRepository {
	return &studentRepository{
		db:  db,
		log: log.With(zap.String("repository", "student")),
	}
}

func (r *studentRepository) Create(ctx context.Context, student *entity.Student) error {
	query := `
		INSERT INTO students (id, parent_id, school_id, name, grade, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		student.ID,
		student.ParentID,
		student.SchoolID,
		student.Name,
		student.Grade,
		student.CreatedAt,
		student.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create student",
			zap.Error(err),
			zap.String("parent_id", student.ParentID.String()),
		)
		return fmt.Errorf("create student %s: %w", student.Name, err)
	}

	return nil
}

func (r *studentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Student, error) {
	query := `
		SELECT id, parent_id, school_id, name, grade, created_at, updated_at
		FROM students
		WHERE id = $1 AND deleted_at IS NULL
	`

	var student entity.Student
	err := r.db.QueryRow(ctx, query, id).Scan(
		&student.ID,
		&student.ParentID,
		&student.SchoolID,
		&student.Name,
		&student.Grade,
		&student.CreatedAt,
		&student.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find student by ID",
			zap.Error(err),
			zap.String("student_id", id.String()),
		)
		return nil, fmt.Errorf("find student by ID %s: %w", id.String(), err)
	}

	return &student, nil
}

func (r *studentRepository) FindByParentID(ctx context.Context, parentID uuid.UUID) ([]*entity.Student, error) {
	query := `
		SELECT id, parent_id, school_id, name, grade, created_at, updated_at
		FROM students
		WHERE parent_id = $1 AND deleted_at IS NULL
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, parentID)
	if err != nil {
		r.log.Error("Failed to find students by parent ID",
			zap.Error(err),
			zap.String("parent_id", parentID.String()),
		)
		return nil, fmt.Errorf("find students by parent ID %s: %w", parentID.String(), err)
	}
	defer rows.Close()

	var students []*entity.Student
	for rows.Next() {
		var student entity.Student
		err := rows.Scan(
			&student.ID,
			&student.ParentID,
			&student.SchoolID,
			&student.Name,
			&student.Grade,
			&student.CreatedAt,
			&student.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan student row", zap.Error(err))
			return nil, fmt.Errorf("scan student row: %w", err)
		}
		students = append(students, &student)
	}

	return students, nil
}

func (r *studentRepository) Update(ctx context.Context, student *entity.Student) error {
	query := `
		UPDATE students
		SET school_id = $2, name = $3, grade = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		student.ID,
		student.SchoolID,
		student.Name,
		student.Grade,
		student.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update student",
			zap.Error(err),
			zap.String("student_id", student.ID.String()),
		)
		return fmt.Errorf("update student %s: %w", student.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("student %s not found", student.ID.String())
	}

	return nil
}

func (r *studentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE students SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete student",
			zap.Error(err),
			zap.String("student_id", id.String()),
		)
		return fmt.Errorf("delete student %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("student %s not found", id.String())
	}

	return nil
}
