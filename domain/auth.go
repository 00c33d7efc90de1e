package domain

import (
	"context"

	"github.com/golang-jwt/jwt/v4"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Principal is the verified caller. It is built once by the auth middleware
// and handed by value to every use case.
type Principal struct {
	UserID string
	Role   Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (p Principal) RequireAdmin() error {
	if !p.IsAdmin() {
		return Forbidden("Access denied. Admin only.")
	}
	return nil
}

type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) Principal() Principal {
	return Principal{UserID: c.Subject, Role: c.Role}
}

type LoginRequest struct {
	Email    string `json:"email" valid:"required~Email is required,email~Invalid email format"`
	Password string `json:"password" valid:"required~Password is required"`
}

type RegisterRequest struct {
	Name     string `json:"name" valid:"required~Name is required"`
	Email    string `json:"email" valid:"required~Email is required,email~Invalid email format"`
	Password string `json:"password" valid:"required~Password is required,stringlength(6|128)~Password must be at least 6 characters"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type AuthResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// TokenIssuer signs bearer tokens for a user. The middleware package owns the
// only implementation.
type TokenIssuer interface {
	Issue(userID string, role Role) (string, error)
}

type AuthUseCase interface {
	Register(ctx context.Context, data RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, data LoginRequest) (*AuthResponse, error)
	Profile(ctx context.Context, p Principal) (*UserView, error)
}
