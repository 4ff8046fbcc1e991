package user

import (
	"errors"
	"time"

	"github.com/geocoder89/userhub/internal/domain/event"
)

type Role string

const (
	RoleSimple Role = "simple"
	RoleAdmin  Role = "admin"
)

// roles that show up in the user listing
var ListedRoles = []Role{RoleSimple, RoleAdmin}

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already in use")
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUser is what a store needs to persist a user; ids and timestamps are
// assigned by the store.
type NewUser struct {
	Name         string
	Email        string
	PasswordHash string
	Role         Role
}

// Listed is the shape returned by the user listing: no password, no audit
// fields, events embedded.
type Listed struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Email  string         `json:"email"`
	Role   Role           `json:"role"`
	Events []event.Listed `json:"events"`
}

type RegisterRequest struct {
	Name     string `json:"name" form:"name" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Token string `json:"token"`
}

func (u User) WithToken(token string) AuthResponse {
	return AuthResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
		Token: token,
	}
}

func IsListedRole(r Role) bool {
	for _, lr := range ListedRoles {
		if lr == r {
			return true
		}
	}
	return false
}
