package usecase

import (
	"context"
	"fmt"
	"time"

	"school-transport/internal/data/entity"
	"school-transport/internal/data/repository"
	"school-transport/internal/dto/request"
	"school-transport/internal/dto/response"
	"school-transport/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StudentService interface {
	ListSchools(ctx context.Context) ([]response.SchoolResponse, error)
	CreateStudent(ctx context.Context, parentID string, req *request.CreateStudentRequest) (*response.StudentResponse, error)
	GetStudents(ctx context.Context, parentID string) ([]response.StudentResponse, error)
	UpdateStudent(ctx context.Context, parentID, studentID string, req *request.UpdateStudentRequest) (*response.StudentResponse, error)
	DeleteStudent(ctx context.Context, parentID, studentID string) error
}

type studentService struct {
	students repository.StudentRepository
	schools  repository.SchoolRepository
	log      *zap.Logger
}

func NewStudentService(students repository.StudentRepository, schools repository.SchoolRepository, log *zap.Logger) StudentService {
	return &studentService{
		students: students,
		schools:  schools,
		log:      log.With(zap.String("service", "student")),
	}
}

func (s *studentService) ListSchools(ctx context.Context) ([]response.SchoolResponse, error) {
	schools, err := s.schools.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}

	responses := make([]response.SchoolResponse, len(schools))
	for i, school := range schools {
		responses[i] = response.SchoolToResponse(school)
	}
	return responses, nil
}

func (s *studentService) CreateStudent(ctx context.Context, parentID string, req *request.CreateStudentRequest) (*response.StudentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	parentUUID, err := uuid.Parse(parentID)
	if err != nil {
		return nil, fmt.Errorf("invalid parent ID format %s: %w", parentID, err)
	}

	schoolID, err := uuid.Parse(req.SchoolID)
	if err != nil {
		return nil, fmt.Errorf("invalid school ID format %s: %w", req.SchoolID, err)
	}

	school, err := s.schools.FindByID(ctx, schoolID)
	if err != nil || school == nil {
		return nil, fmt.Errorf("school %s not found", req.SchoolID)
	}

	now := time.Now()
	student := &entity.Student{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ParentID: parentUUID,
		SchoolID: schoolID,
		Name:     req.Name,
		Grade:    req.Grade,
	}

	if err := s.students.Create(ctx, student); err != nil {
		s.log.Error("Failed to create student", zap.Error(err), zap.String("parent_id", parentID))
		return nil, fmt.Errorf("create student: %w", err)
	}

	s.log.Info("Student created",
		zap.String("student_id", student.ID.String()),
		zap.String("parent_id", parentID),
	)

	resp := response.StudentToResponse(student, school)
	return &resp, nil
}

func (s *studentService) GetStudents(ctx context.Context, parentID string) ([]response.StudentResponse, error) {
	parentUUID, err := uuid.Parse(parentID)
	if err != nil {
		return nil, fmt.Errorf("invalid parent ID format %s: %w", parentID, err)
	}

	students, err := s.students.FindByParentID(ctx, parentUUID)
	if err != nil {
		return nil, fmt.Errorf("get students: %w", err)
	}

	responses := make([]response.StudentResponse, len(students))
	for i, student := range students {
		school, _ := s.schools.FindByID(ctx, student.SchoolID)
		responses[i] = response.StudentToResponse(student, school)
	}

	return responses, nil
}

func (s *studentService) UpdateStudent(ctx context.Context, parentID, studentID string, req *request.UpdateStudentRequest) (*response.StudentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	student, err := s.ownedStudent(ctx, parentID, studentID)
	if err != nil {
		return nil, err
	}

	schoolID, err := uuid.Parse(req.SchoolID)
	if err != nil {
		return nil, fmt.Errorf("invalid school ID format %s: %w", req.SchoolID, err)
	}

	school, err := s.schools.FindByID(ctx, schoolID)
	if err != nil || school == nil {
		return nil, fmt.Errorf("school %s not found", req.SchoolID)
	}

	student.SchoolID = schoolID
	student.Name = req.Name
	student.Grade = req.Grade
	student.UpdatedAt = time.Now()

	if err := s.students.Update(ctx, student); err != nil {
		return nil, fmt.Errorf("update student: %w", err)
	}

	resp := response.StudentToResponse(student, school)
	return &resp, nil
}

func (s *studentService) DeleteStudent(ctx context.Context, parentID, studentID string) error {
	student, err := s.ownedStudent(ctx, parentID, studentID)
	if err != nil {
		return err
	}

	if err := s.students.Delete(ctx, student.ID); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}

	s.log.Info("Student deleted",
		zap.String("student_id", studentID),
		zap.String("parent_id", parentID),
	)
	return nil
}

func (s *studentService) ownedStudent(ctx context.Context, parentID, studentID string) (*entity.Student, error) {
	parentUUID, err := uuid.Parse(parentID)
	if err != nil {
		return nil, fmt.Errorf("invalid parent ID format %s: %w", parentID, err)
	}

	id, err := uuid.Parse(studentID)
	if err != nil {
		return nil, fmt.Errorf("invalid student ID format %s: %w", studentID, err)
	}

	student, err := s.students.FindByID(ctx, id)
	if err != nil || student == nil {
		return nil, fmt.Errorf("student %s not found", studentID)
	}
	if student.ParentID != parentUUID {
		return nil, fmt.Errorf("unauthorized to manage this student")
	}

	return student, nil
}
