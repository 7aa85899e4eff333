package dto

import "time"

// LoginRequest represents login credentials. CollegeID accepts the display
// code ("CIDA001") or a bare numeric id; Super Admins leave it empty.
type LoginRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	Role      string `json:"role" binding:"required"`
	CollegeID string `json:"collegeId,omitempty"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken           string `json:"accessToken"`
	TokenType             string `json:"tokenType" example:"Bearer"`
	ExpiresIn             int64  `json:"expiresIn"`
	RefreshToken          string `json:"refreshToken,omitempty"`
	RefreshTokenExpiresIn int64  `json:"refreshTokenExpiresIn,omitempty"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RegisterStudentRequest registers a student against the college's registry.
type RegisterStudentRequest struct {
	Username       string `json:"username" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8"`
	CollegeID      string `json:"collegeId" binding:"required"`
	RegisterNumber string `json:"registerNumber" binding:"required"`
	Senior         bool   `json:"senior"`
}

// RegisterStaffRequest registers a Teacher (pending Admin approval) or an
// Admin (pending Super Admin approval), depending on the endpoint.
type RegisterStaffRequest struct {
	Username  string `json:"username" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	CollegeID string `json:"collegeId" binding:"required"`
}

// RegisterSuperAdminRequest bootstraps a college-less, pre-verified account.
type RegisterSuperAdminRequest struct {
	Username string `json:"username" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Role           string     `json:"role"`
	CollegeID      *int64     `json:"collegeId,omitempty"`
	CollegeCode    string     `json:"collegeCode,omitempty"`
	RegisterNumber *string    `json:"registerNumber,omitempty"`
	IsVerified     bool       `json:"isVerified"`
	IsOnline       bool       `json:"isOnline"`
	LastActive     *time.Time `json:"lastActive,omitempty"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// VerificationDecisionResponse reports the outcome of a user verification
// decision. Rejection deletes the account, so Deleted tells the caller the
// target is gone rather than flagged.
type VerificationDecisionResponse struct {
	UserID  int64  `json:"userId"`
	Status  string `json:"status"`
	Deleted bool   `json:"deleted,omitempty"`
}
