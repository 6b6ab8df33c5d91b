package response

import (
	"time"

	"school-transport/internal/data/entity"
)

type SchoolResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

func SchoolToResponse(school *entity.School) SchoolResponse {
	return SchoolResponse{
		ID:   school.ID.String(),
		Name: school.Name,
		City: school.City,
	}
}

type StudentResponse struct {
	ID         string    `json:"id"`
	ParentID   string    `json:"parent_id"`
	SchoolID   string    `json:"school_id"`
	SchoolName string    `json:"school_name,omitempty"`
	Name       string    `json:"name"`
	Grade      string    `json:"grade"`
	CreatedAt  time.Time `json:"created_at"`
}

func StudentToResponse(student *entity.Student, school *entity.School) StudentResponse {
	resp := StudentResponse{
		ID:        student.ID.String(),
		ParentID:  student.ParentID.String(),
		SchoolID:  student.SchoolID.String(),
		Name:      student.Name,
		Grade:     student.Grade,
		CreatedAt: student.CreatedAt,
	}
	if school != nil {
		resp.SchoolName = school.Name
	}
	return resp
}
