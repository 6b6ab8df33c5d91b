package entity

import "github.com/google/uuid"

type Student struct {
	Base
	ParentID uuid.UUID `db:"parent_id"`
	SchoolID uuid.UUID `db:"school_id"`
	Name     string    `db:"name"`
	Grade    string    `db:"grade"` // "3", "7B", etc.
}
