package models

import (
	"strings"
	"time"

	"github.com/brandkeep/brandkeep/pkg/permissions"
	"github.com/uptrace/bun"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var normalizer = cases.Upper(language.Und)

// NormalizeName returns the form of a role name used for uniqueness checks.
func NormalizeName(name string) string {
	return normalizer.String(strings.TrimSpace(name))
}

type Role struct {
	bun.BaseModel `bun:"table:roles,alias:r"`

	ID             string       `bun:",pk" json:"id"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	Name           string       `json:"name"`
	NormalizedName string       `json:"-"`
	Description    string       `json:"description"`
	Claims         []*RoleClaim `bun:"rel:has-many,join:id=role_id" json:"-"`
}

// IsDefault reports whether the role is one of the protected default roles.
func (r *Role) IsDefault() bool {
	return permissions.IsDefaultRole(r.Name)
}

// Permissions returns the permission claims loaded on the role.
func (r *Role) Permissions() []string {
	perms := make([]string, 0, len(r.Claims))
	for _, c := range r.Claims {
		if c.ClaimType == permissions.ClaimType {
			perms = append(perms, c.ClaimValue)
		}
	}
	return perms
}

type RoleClaim struct {
	bun.BaseModel `bun:"table:role_claims,alias:rc"`

	ID         int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	RoleID     string    `json:"role_id"`
	ClaimType  string    `json:"claim_type"`
	ClaimValue string    `json:"claim_value"`
}
