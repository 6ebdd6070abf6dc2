package brands

import "github.com/brandkeep/brandkeep/pkg/pagination"

type SearchBrandsPayload struct {
	pagination.Filter
	Name string `json:"name,omitempty" query:"name" mod:"trim" validate:"max=100"`
}

type CreateBrandPayload struct {
	Name        string `json:"name" mod:"trim" validate:"required,max=200"`
	Description string `json:"description" mod:"trim" validate:"max=1000"`
}

type UpdateBrandPayload struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}
