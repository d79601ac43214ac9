package models

import "time"

// AuthProvider identifies how an account authenticates.
type AuthProvider string

const (
	AuthProviderLocal  AuthProvider = "local"
	AuthProviderGoogle AuthProvider = "google"
)

// Role controls access to the review surface.
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
)

// Student is an account row. Exactly one of PasswordHash or GoogleID backs a
// login attempt, matching AuthProvider.
type Student struct {
	ID             string       `db:"user_id" json:"id"`
	Email          string       `db:"email" json:"email"`
	PasswordHash   *string      `db:"password_hash" json:"-"`
	GoogleID       *string      `db:"google_id" json:"-"`
	AuthProvider   AuthProvider `db:"auth_provider" json:"auth_provider"`
	Role           Role         `db:"role" json:"role"`
	ProfilePicture *string      `db:"profile_picture" json:"profile_picture,omitempty"`
	FirstName      *string      `db:"first_name" json:"first_name,omitempty"`
	LastName       *string      `db:"last_name" json:"last_name,omitempty"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updated_at"`
}

// GoogleIdentity holds the claims returned by the identity provider.
type GoogleIdentity struct {
	Subject        string `json:"sub"`
	Email          string `json:"email"`
	FirstName      string `json:"given_name"`
	LastName       string `json:"family_name"`
	ProfilePicture string `json:"picture"`
}

// RegisterRequest is the local sign-up payload.
type RegisterRequest struct {
	Email           string `json:"email" binding:"required" validate:"required,contains=@"`
	Password        string `json:"password" binding:"required" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required" validate:"required"`
}

// LoginRequest is the local login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" validate:"required,contains=@"`
	Password string `json:"password" binding:"required" validate:"required"`
}
