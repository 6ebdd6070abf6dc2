package users

// CreateUserPayload represents the request body for creating a user.
type CreateUserPayload struct {
	Username string   `json:"username" mod:"trim" validate:"required,min=3,max=50"`
	Email    *string  `json:"email" validate:"omitempty,email"`
	Password string   `json:"password" validate:"required,min=8"`
	RoleIDs  []string `json:"role_ids" validate:"omitempty,dive,uuid4"`
}

// ListUsersQuery represents the query parameters for listing users.
type ListUsersQuery struct {
	Limit  int `query:"limit" default:"50" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// UserResponse is a user along with the names of their roles.
type UserResponse struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    *string  `json:"email,omitempty"`
	IsActive bool     `json:"is_active"`
	Roles    []string `json:"roles"`
}
