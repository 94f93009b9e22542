// File: internal/dtos/auth.go

// Package dtos defines the request and response shapes of the HTTP API.
// Request structs carry validation tags checked by the shared validator.
package dtos

import "time"

type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=32,alphanum"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6,max=72"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

type UserProfileUpdateRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=1,max=50"`
}

type UserProfile struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}
