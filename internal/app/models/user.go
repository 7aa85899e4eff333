package models

import "time"

// OnlineWindow is how recently a user must have been seen to count as
// online on the dashboards.
const OnlineWindow = 5 * time.Minute

// User defines the user model based on the 'users' table
type User struct {
	ID             int64      `json:"id" db:"id" example:"1"`
	Username       string     `json:"username" db:"username" example:"jdoe"`
	Name           string     `json:"name" db:"name" example:"Jordan Doe"`
	Email          string     `json:"email" db:"email" example:"jdoe@college.edu"`
	Password       string     `json:"-" db:"password_hash"` // hashed, excluded from JSON
	RoleID         int64      `json:"roleId" db:"role_id"`
	CollegeID      *int64     `json:"collegeId,omitempty" db:"college_id"` // nil for Super Admin
	RegisterNumber *string    `json:"registerNumber,omitempty" db:"register_number"`
	IsVerified     bool       `json:"isVerified" db:"is_verified"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	LastActive     *time.Time `json:"lastActive,omitempty" db:"last_active"`

	Role    *Role    `json:"role,omitempty"`    // Relation, no db tag
	College *College `json:"college,omitempty"` // Relation, no db tag
}

// IsOnline reports whether the user was active within the online window.
func (u *User) IsOnline(now time.Time) bool {
	if u.LastActive == nil {
		return false
	}
	return now.Sub(*u.LastActive) <= OnlineWindow
}

// RoleName returns the user's role name, or "" when the relation is not
// loaded.
func (u *User) RoleName() RoleName {
	if u.Role == nil {
		return ""
	}
	return u.Role.Name
}

// IsSuperAdmin reports whether the user holds the global role.
func (u *User) IsSuperAdmin() bool {
	return u.RoleName() == RoleSuperAdmin
}
