package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Brand struct {
	bun.BaseModel `bun:"table:brands,alias:b"`

	ID          string    `bun:",pk" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}
