package domain

import "time"

// ============================================================
// Users & Authentication
// ============================================================

// Role gates every authorization decision in the portal.
type Role string

const (
	RoleClient Role = "CLIENT"
	RoleAgent  Role = "AGENT"
	RoleAdmin  Role = "ADMIN"
	RoleDPO    Role = "DPO"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleAgent, RoleAdmin, RoleDPO:
		return true
	}
	return false
}

// User is an authenticated actor.
type User struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        Role       `json:"role"`
	ClientID    string     `json:"clientId,omitempty"` // only for CLIENT
	Department  string     `json:"department,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	IsActive    *bool      `json:"isActive,omitempty"`
	Permissions []string   `json:"permissions,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// Active treats an unset flag as active.
func (u *User) Active() bool {
	return u.IsActive == nil || *u.IsActive
}

// AuthTokens is returned by login and refresh.
type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         User   `json:"user"`
}

// UserInput is the partial payload for creating or updating a user.
type UserInput struct {
	Email       *string  `json:"email,omitempty"`
	Name        *string  `json:"name,omitempty"`
	Role        *Role    `json:"role,omitempty"`
	ClientID    *string  `json:"clientId,omitempty"`
	Department  *string  `json:"department,omitempty"`
	Phone       *string  `json:"phone,omitempty"`
	IsActive    *bool    `json:"isActive,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// UserFilter narrows GetUsers.
type UserFilter struct {
	Role     []Role
	IsActive *bool
	ClientID string
	Cursor   string
	Limit    int
}
