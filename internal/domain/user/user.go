package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleChef  Role = "chef"
	RoleAdmin Role = "admin"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameTaken  = errors.New("username already registered")
	ErrInvalidProfile = errors.New("invalid profile")
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleChef, RoleAdmin:
		return true
	}
	return false
}

// OrDefault returns RoleUser when r is empty.
func (r Role) OrDefault() Role {
	if r == "" {
		return RoleUser
	}
	return r
}

type Profile struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

type SignUpRequest struct {
	Username string `json:"username" binding:"required,min=1,max=64"`
	Email    string `json:"email" binding:"required,email"`
	// bcrypt rejects passwords over 72 bytes
	Password string `json:"password" binding:"required,max=72"`
	Role     Role   `json:"role" binding:"omitempty,oneof=user chef admin"`
}

type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func NewFromSignUp(req SignUpRequest, passwordHash string) Profile {
	return Profile{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         req.Role.OrDefault(),
		CreatedAt:    time.Now().UTC(),
	}
}
