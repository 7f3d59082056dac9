package entities

import (
	"time"

	"github.com/google/uuid"
)

// UserRole represents user roles
type UserRole string

const (
	UserRoleStudent   UserRole = "student"
	UserRoleTutor     UserRole = "tutor"
	UserRoleInstitute UserRole = "institute"
	UserRoleAdmin     UserRole = "admin"
)

// SelfAssignable reports whether a user may pick this role at registration
func (r UserRole) SelfAssignable() bool {
	switch r {
	case UserRoleStudent, UserRoleTutor, UserRoleInstitute:
		return true
	}
	return false
}

// User represents a user entity
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RegisterInput represents input for creating a user
type RegisterInput struct {
	Email    string   `json:"email" binding:"required,email"`
	Name     string   `json:"name" binding:"required,min=2,max=100"`
	Password string   `json:"password" binding:"required,min=8"`
	Role     UserRole `json:"role" binding:"required"`
	// RegistrationToken claims the pending registration saved for this email
	RegistrationToken string `json:"registrationToken"`
}

// LoginInput represents input for user login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshInput carries a refresh token
type RefreshInput struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	User         *User     `json:"user"`
}
