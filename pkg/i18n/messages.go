package i18n

// Message keys.
const (
	BrandNotFound = "brand.not_found"

	RoleNotFound            = "role.not_found"
	RoleCreated             = "role.created"
	RoleUpdated             = "role.updated"
	RoleDeleted             = "role.deleted"
	RoleCreateFailed        = "role.create_failed"
	RoleUpdateFailed        = "role.update_failed"
	RoleDeleteFailed        = "role.delete_failed"
	RoleDeleteDefault       = "role.delete_default"
	RoleDeleteInUse         = "role.delete_in_use"
	RoleModifyDefault       = "role.modify_default"
	RoleNameTaken           = "role.name_taken"
	RoleNameRequired        = "role.name_required"
	PermissionsUpdated      = "permissions.updated"
	PermissionsUpdateFailed = "permissions.update_failed"
	PermissionsNotAllowed   = "permissions.not_allowed"
	PermissionsRequired     = "permissions.required"

	UserNotFound = "user.not_found"
)

var catalogs = map[string]map[string]string{
	"en": {
		BrandNotFound: "Brand",

		RoleNotFound:            "Role",
		RoleCreated:             "Role {0} Created.",
		RoleUpdated:             "Role {0} Updated.",
		RoleDeleted:             "Role {0} Deleted.",
		RoleCreateFailed:        "Register role failed",
		RoleUpdateFailed:        "Update role failed",
		RoleDeleteFailed:        "Delete role failed",
		RoleDeleteDefault:       "Not allowed to delete {0} Role.",
		RoleDeleteInUse:         "Not allowed to delete {0} Role as it is being used.",
		RoleModifyDefault:       "Not allowed to modify {0} Role.",
		RoleNameTaken:           "Role name '{0}' is already taken.",
		RoleNameRequired:        "Role name is required.",
		PermissionsUpdated:      "Permissions Updated.",
		PermissionsUpdateFailed: "Update permissions failed",
		PermissionsNotAllowed:   "Not allowed to modify Permissions for this Role.",
		PermissionsRequired:     "The {0} Role must keep the {1} permissions.",

		UserNotFound: "User",
	},
}
