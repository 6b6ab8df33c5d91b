package request

type CreateStudentRequest struct {
	SchoolID string `json:"school_id" validate:"required,uuid4"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Grade    string `json:"grade" validate:"required,max=10"`
}

type UpdateStudentRequest struct {
	SchoolID string `json:"school_id" validate:"required,uuid4"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Grade    string `json:"grade" validate:"required,max=10"`
}
