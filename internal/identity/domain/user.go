package domain

import (
	"time"

	"github.com/northfit/installops/pkg/rbac"
)

// User statuses. Only active users may establish sessions.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

type User struct {
	ID           string
	Name         string
	Email        string
	Phone        *string // nullable contact number
	Role         rbac.Role
	StoreID      *string // nullable; only set for store-scoped staff
	Status       string
	PasswordHash string // argon2 encoded
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive reports whether the user may log in.
func (u User) IsActive() bool { return u.Status == UserStatusActive }
