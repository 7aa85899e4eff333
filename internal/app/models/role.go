package models

// RoleName identifies one of the portal's fixed roles. Roles are seeded at
// startup and never created through the API.
type RoleName string

const (
	RoleSuperAdmin    RoleName = "Super Admin"
	RoleAdmin         RoleName = "Admin"
	RoleTeacher       RoleName = "Teacher"
	RoleSeniorStudent RoleName = "Senior Student"
	RoleStudent       RoleName = "Student"
)

// AllRoleNames lists every seeded role, in display order.
var AllRoleNames = []RoleName{
	RoleSuperAdmin,
	RoleAdmin,
	RoleTeacher,
	RoleSeniorStudent,
	RoleStudent,
}

// Valid reports whether the name is one of the seeded roles.
func (r RoleName) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleTeacher, RoleSeniorStudent, RoleStudent:
		return true
	}
	return false
}

// Role defines the role model based on the 'roles' table
type Role struct {
	ID   int64    `json:"id" db:"id" example:"1"`
	Name RoleName `json:"name" db:"name" example:"Teacher"`
}
