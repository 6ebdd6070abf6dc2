package models

import (
	"testing"

	"github.com/brandkeep/brandkeep/pkg/permissions"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ADMIN", NormalizeName(" admin "))
	assert.Equal(t, NormalizeName("Ärger"), NormalizeName("äRGER"))
}

func TestRoleIsDefault(t *testing.T) {
	t.Parallel()

	assert.True(t, (&Role{Name: permissions.RoleAdmin}).IsDefault())
	assert.False(t, (&Role{Name: "Editor"}).IsDefault())
}

func TestUserPermissions(t *testing.T) {
	t.Parallel()

	user := &User{Roles: []*Role{
		{Name: "A", Claims: []*RoleClaim{
			{ClaimType: permissions.ClaimType, ClaimValue: permissions.BrandsView},
			{ClaimType: "other", ClaimValue: permissions.RolesDelete},
		}},
		{Name: "B", Claims: []*RoleClaim{
			{ClaimType: permissions.ClaimType, ClaimValue: permissions.BrandsView},
			{ClaimType: permissions.ClaimType, ClaimValue: permissions.BrandsSearch},
		}},
	}}

	assert.True(t, user.HasPermission(permissions.BrandsSearch))
	assert.False(t, user.HasPermission(permissions.RolesDelete))
	assert.Equal(t, []string{permissions.BrandsView, permissions.BrandsSearch}, user.Permissions())
}
