package models

import "github.com/golang-jwt/jwt/v5"

// RegisterRequest creates a directory user.
type RegisterRequest struct {
	EmployeeID string   `json:"employeeId" validate:"required"`
	Name       string   `json:"name" validate:"required"`
	Email      string   `json:"email" validate:"required,email"`
	Password   string   `json:"password" validate:"required,min=6,max=72"`
	Department string   `json:"department" validate:"required"`
	Role       UserRole `json:"role" validate:"omitempty,oneof=employee manager admin"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	EmployeeID string `json:"employeeId" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// Identity is the authenticated caller decoded from a verified token.
type Identity struct {
	UserID     string   `json:"userId"`
	EmployeeID string   `json:"employeeId"`
	Name       string   `json:"name"`
	Role       UserRole `json:"role"`
}

// JWTClaims represents the JWT payload for access tokens. The subject holds the user id.
type JWTClaims struct {
	EmployeeID string   `json:"employeeId"`
	Name       string   `json:"name"`
	Role       UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Identity returns the caller described by the claims.
func (c *JWTClaims) Identity() Identity {
	return Identity{
		UserID:     c.Subject,
		EmployeeID: c.EmployeeID,
		Name:       c.Name,
		Role:       c.Role,
	}
}
