package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           string    `bun:",pk" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `json:"username"`
	Email        *string   `json:"email,omitempty"`
	PasswordHash string    `json:"-"` // Never expose password hash
	IsActive     bool      `json:"is_active"`

	// Roles is filled in by the users service, claims included.
	Roles []*Role `bun:"-" json:"-"`
}

// HasPermission checks whether any of the user's roles grants permission.
func (u *User) HasPermission(permission string) bool {
	for _, r := range u.Roles {
		for _, p := range r.Permissions() {
			if p == permission {
				return true
			}
		}
	}
	return false
}

// Permissions returns the union of the user's role permissions.
func (u *User) Permissions() []string {
	seen := map[string]struct{}{}
	perms := make([]string, 0)
	for _, r := range u.Roles {
		for _, p := range r.Permissions() {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			perms = append(perms, p)
		}
	}
	return perms
}

type UserRole struct {
	bun.BaseModel `bun:"table:user_roles,alias:ur"`

	UserID string `bun:",pk" json:"user_id"`
	RoleID string `bun:",pk" json:"role_id"`
}
