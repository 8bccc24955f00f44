package authsdk

import (
	"time"

	"github.com/northfit/installops/pkg/rbac"
)

// UserStatus is the account status materialized into client state. Only
// active accounts ever come out of a successful session check.
type UserStatus string

const StatusActive UserStatus = "active"

// User is the signed-in principal as the client knows it. The identity
// endpoint only reports id and role, so name, phone and store scoping stay
// blank until some richer profile source fills them in.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     *string    `json:"phone,omitempty"`
	Role      rbac.Role  `json:"role"`
	StoreID   *string    `json:"store_id,omitempty"`
	Status    UserStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// clone returns a copy so callers can't mutate store state through the
// returned pointer.
func (u *User) clone() *User {
	if u == nil {
		return nil
	}
	out := *u
	if u.Phone != nil {
		phone := *u.Phone
		out.Phone = &phone
	}
	if u.StoreID != nil {
		storeID := *u.StoreID
		out.StoreID = &storeID
	}
	return &out
}

// MeResponse is the identity endpoint's answer to "who am I". Role is the
// raw backend string (possibly empty when the backend reports null) and
// must be normalized before use.
type MeResponse struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// LoginRequest is the credential payload for POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HealthChecks reports the status of each critical dependency.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is returned by the /livez and /readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
