package roles

type UpsertRolePayload struct {
	ID          string `json:"id,omitempty" mod:"trim"`
	Name        string `json:"name" mod:"trim" validate:"required,max=256"`
	Description string `json:"description" mod:"trim" validate:"max=1000"`
}

type UpdatePermissionsPayload struct {
	Permissions []string `json:"permissions" validate:"dive,permission"`
}

type NameExistsQuery struct {
	Name      string `query:"name" json:"name" mod:"trim" validate:"required"`
	ExcludeID string `query:"exclude_id" json:"exclude_id,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
