package models

import (
	"time"

	"juntacomunal/internal/common"
)

type AuthUser struct {
	ID            int64      `json:"idUser,string" db:"id_user"`
	Email         string     `json:"email" db:"email"`
	PasswordHash  string     `json:"-" db:"password_hash"` // Never serialize in JSON
	Nombres       string     `json:"nombres" db:"nombres"`
	Apellidos     string     `json:"apellidos" db:"apellidos"`
	EmailVerified bool       `json:"emailVerified" db:"email_verified"`
	Estado        string     `json:"estado" db:"estado"`
	LastLoginAt   *time.Time `json:"lastLoginAt" db:"last_login_at"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
}

type CreateAuthUserRequest struct {
	Email     string  `json:"email" validate:"required,email,max=150"`
	Password  string  `json:"password" validate:"required,min=8,max=72"`
	Nombres   *string `json:"nombres" validate:"omitempty,max=100"`
	Apellidos *string `json:"apellidos" validate:"omitempty,max=150"`
	Estado    *string `json:"estado" validate:"omitempty,oneof=ACTIVO INACTIVO"`
}

type UpdateAuthUserRequest struct {
	Email       common.Optional[string] `json:"email"`
	Password    common.Optional[string] `json:"password"`
	Nombres     common.Optional[string] `json:"nombres"`
	Apellidos   common.Optional[string] `json:"apellidos"`
	Estado      common.Optional[string] `json:"estado"`
	LastLoginAt common.Optional[string] `json:"lastLoginAt"` // ISO-8601; null clears it
}

// AuthUserFilter holds the listing criteria for auth users
type AuthUserFilter struct {
	Email  string // substring, case-insensitive
	Estado string
	Window common.SkipTake
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginUser struct {
	ID            int64  `json:"id,string"`
	Email         string `json:"email"`
	Nombres       string `json:"nombres"`
	Apellidos     string `json:"apellidos"`
	EmailVerified bool   `json:"emailVerified"`
}

type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	User        LoginUser `json:"user"`
}

// LoginAttempt is one row of auth_login_logs.
type LoginAttempt struct {
	ID            int64     `json:"idLog,string" db:"id_log"`
	UserID        *int64    `json:"idUser,string" db:"id_user"`
	Email         string    `json:"email" db:"email"`
	Success       bool      `json:"success" db:"success"`
	IPAddress     *string   `json:"ipAddress" db:"ip_address"`
	UserAgent     *string   `json:"userAgent" db:"user_agent"`
	FailureReason *string   `json:"failureReason" db:"failure_reason"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// Login failure reasons recorded in auth_login_logs.
const (
	LoginUserNotFound    = "USER_NOT_FOUND"
	LoginInvalidPassword = "INVALID_PASSWORD"
	LoginUserInactive    = "USER_INACTIVE"
)
