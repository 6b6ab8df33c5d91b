package entity

type UserRole string

const (
	RoleParent UserRole = "parent"
	RoleAdmin  UserRole = "admin"
	RoleDriver UserRole = "driver"
)

// ValidRole reports whether s is one of the known roles.
func ValidRole(s string) bool {
	switch UserRole(s) {
	case RoleParent, RoleAdmin, RoleDriver:
		return true
	}
	return false
}

type User struct {
	Base
	Name         string   `db:"name"`
	Email        string   `db:"email"`
	PasswordHash string   `db:"password"`
	Phone        *string  `db:"phone"`
	Role         UserRole `db:"role"`
	IsActive     bool     `db:"is_active"`
}
