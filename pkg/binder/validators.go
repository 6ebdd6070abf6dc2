package binder

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	permissionRE = regexp.MustCompile(`^Permissions\.[A-Za-z][A-Za-z0-9]*\.[A-Za-z][A-Za-z0-9]*$`)
)

// permissionValidator ensures the value looks like Permissions.<Resource>.<Action>
// or is blank. Blank values are allowed since permission syncs skip them, so
// pair it with `required` when the value has to be present.
func permissionValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return permissionRE.MatchString(value)
}
