package migrations

import (
	"context"

	"github.com/brandkeep/brandkeep/pkg/models"
	"github.com/brandkeep/brandkeep/pkg/permissions"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		seed := map[string][]string{
			permissions.RoleAdmin: permissions.All,
			permissions.RoleBasic: permissions.Basic,
		}

		for _, name := range permissions.DefaultRoles() {
			roleID := uuid.NewString()
			_, err := db.Exec(`INSERT INTO roles (id, name, normalized_name, description) VALUES (?, ?, ?, ?)`,
				roleID, name, models.NormalizeName(name), name+" role")
			if err != nil {
				return errors.WithStack(err)
			}

			for _, perm := range seed[name] {
				_, err = db.Exec(`INSERT INTO role_claims (role_id, claim_type, claim_value) VALUES (?, ?, ?)`,
					roleID, permissions.ClaimType, perm)
				if err != nil {
					return errors.WithStack(err)
				}
			}
		}

		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		for _, name := range permissions.DefaultRoles() {
			_, err := db.Exec(`DELETE FROM role_claims WHERE role_id = (SELECT id FROM roles WHERE name = ?)`, name)
			if err != nil {
				return errors.WithStack(err)
			}
			_, err = db.Exec(`DELETE FROM roles WHERE name = ?`, name)
			if err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	Migrations.MustRegister(up, down)
}
