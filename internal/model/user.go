package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role identifies how analysis responses are shaped for a requester.
type Role string

const (
	// RoleSalesperson is a staff user who owns meetings.
	RoleSalesperson Role = "salesperson"
	// RoleAdmin may access any meeting.
	RoleAdmin Role = "admin"
	// RoleRecorder is a staff user who captures meeting audio.
	RoleRecorder Role = "recorder"
	// RoleClient is an external participant holding only a share code.
	RoleClient Role = "client"
	// RoleUser is the fallback for tokens issued without a role claim.
	RoleUser Role = "user"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
}

// User represents a stored account with authentication material.
type User struct {
	ID             uuid.UUID
	Email          string
	Name           string
	HashedPassword []byte
	Role           Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Identity is the decoded claim set of an authenticated request.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Name   string
	Role   Role
}

// TokenManager issues and verifies signed bearer tokens.
type TokenManager interface {
	Generate(user User) (string, error)
	Parse(token string) (Identity, error)
}
