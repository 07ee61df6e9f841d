package models

import "github.com/golang-jwt/jwt/v5"

// SignupRequest holds credentials for creating a user account.
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest holds credentials for authenticating an account.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse returns the issued token plus the fields the frontend
// captures immediately after login.
type AuthResponse struct {
	Token    string `json:"token"`
	Role     Role   `json:"role"`
	DarkMode bool   `json:"darkMode"`
}

// DarkModeRequest toggles the preference.
type DarkModeRequest struct {
	DarkMode bool `json:"darkMode"`
}

// JWTClaims is the session token payload. It is set once at validation
// time and read-only afterwards: the role inside is trusted as-is by all
// downstream authorization checks (the admin allow-list gates issuance,
// not each request).
type JWTClaims struct {
	AccountID string `json:"account_id"`
	Role      Role   `json:"role"`
	jwt.RegisteredClaims
}
