// Package permissions holds the permission catalogue, the default roles and a
// small set type used to diff role permissions.
package permissions

import (
	"slices"
	"strings"
)

// ClaimType is the claim type every permission claim is stored under.
const ClaimType = "permission"

// Actions.
const (
	ActionView   = "View"
	ActionSearch = "Search"
	ActionCreate = "Create"
	ActionUpdate = "Update"
	ActionDelete = "Delete"
	ActionEdit   = "Edit"
)

// Resources.
const (
	ResourceBrands     = "Brands"
	ResourceRoles      = "Roles"
	ResourceRoleClaims = "RoleClaims"
	ResourceUsers      = "Users"
	ResourceUserRoles  = "UserRoles"
)

// Name builds the permission string for an action on a resource.
func Name(resource, action string) string {
	return "Permissions." + resource + "." + action
}

var (
	BrandsView   = Name(ResourceBrands, ActionView)
	BrandsSearch = Name(ResourceBrands, ActionSearch)
	BrandsCreate = Name(ResourceBrands, ActionCreate)
	BrandsUpdate = Name(ResourceBrands, ActionUpdate)
	BrandsDelete = Name(ResourceBrands, ActionDelete)

	RolesView   = Name(ResourceRoles, ActionView)
	RolesCreate = Name(ResourceRoles, ActionCreate)
	RolesUpdate = Name(ResourceRoles, ActionUpdate)
	RolesDelete = Name(ResourceRoles, ActionDelete)

	RoleClaimsView = Name(ResourceRoleClaims, ActionView)
	RoleClaimsEdit = Name(ResourceRoleClaims, ActionEdit)

	UsersView   = Name(ResourceUsers, ActionView)
	UsersCreate = Name(ResourceUsers, ActionCreate)

	UserRolesView = Name(ResourceUserRoles, ActionView)
)

// All lists every permission, in the order it is shown to administrators.
var All = []string{
	BrandsView, BrandsSearch, BrandsCreate, BrandsUpdate, BrandsDelete,
	RolesView, RolesCreate, RolesUpdate, RolesDelete,
	RoleClaimsView, RoleClaimsEdit,
	UsersView, UsersCreate,
	UserRolesView,
}

// Basic is granted to the Basic role on seed.
var Basic = []string{
	BrandsView, BrandsSearch,
}

// AdminRequired must stay on the Admin role, otherwise nobody could manage
// roles anymore.
var AdminRequired = []string{
	RolesView, RoleClaimsView, RoleClaimsEdit,
}

// Default roles. They can't be renamed or deleted.
const (
	RoleAdmin = "Admin"
	RoleBasic = "Basic"
)

var defaultRoles = []string{RoleAdmin, RoleBasic}

// DefaultRoles returns a copy of the default role names.
func DefaultRoles() []string {
	return slices.Clone(defaultRoles)
}

// IsDefaultRole reports whether name is one of the default roles. Comparison
// ignores case, the same way role names are unique.
func IsDefaultRole(name string) bool {
	for _, r := range defaultRoles {
		if strings.EqualFold(r, name) {
			return true
		}
	}
	return false
}
