package roles

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/brandkeep/brandkeep/pkg/i18n"
	"github.com/brandkeep/brandkeep/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Store persists roles and their claims. Lookups of missing roles return an
// error wrapping sql.ErrNoRows; writes the store refuses return *StoreError.
type Store interface {
	FindByID(ctx context.Context, id string) (*models.Role, error)
	FindByName(ctx context.Context, name string) (*models.Role, error)
	List(ctx context.Context) ([]*models.Role, error)
	ListByIDs(ctx context.Context, ids []string) ([]*models.Role, error)
	Create(ctx context.Context, role *models.Role) error
	Update(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, role *models.Role) error
	Claims(ctx context.Context, roleID string) ([]*models.RoleClaim, error)
	AddClaim(ctx context.Context, roleID, claimType, claimValue string) error
	RemoveClaim(ctx context.Context, roleID, claimType, claimValue string) error
}

// UserStore is the part of user management that role management depends on.
type UserStore interface {
	ListAll(ctx context.Context) ([]*models.User, error)
	IsInRole(ctx context.Context, userID, roleName string) (bool, error)
	RoleIDs(ctx context.Context, userID string) ([]string, error)
}

// StoreError is returned when the store rejects a write. Messages are meant to
// be shown to the caller.
type StoreError struct {
	Messages []string
}

func (e *StoreError) Error() string {
	return strings.Join(e.Messages, " ")
}

type bunStore struct {
	db        *bun.DB
	localizer *i18n.Localizer
}

// NewStore returns a Store backed by db.
func NewStore(db *bun.DB, localizer *i18n.Localizer) Store {
	return &bunStore{db: db, localizer: localizer}
}

func (s *bunStore) FindByID(ctx context.Context, id string) (*models.Role, error) {
	role := &models.Role{}
	err := s.db.NewSelect().
		Model(role).
		Where("r.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return role, nil
}

func (s *bunStore) FindByName(ctx context.Context, name string) (*models.Role, error) {
	role := &models.Role{}
	err := s.db.NewSelect().
		Model(role).
		Where("r.normalized_name = ?", models.NormalizeName(name)).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return role, nil
}

func (s *bunStore) List(ctx context.Context) ([]*models.Role, error) {
	roles := []*models.Role{}
	err := s.db.NewSelect().
		Model(&roles).
		Order("r.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return roles, nil
}

func (s *bunStore) ListByIDs(ctx context.Context, ids []string) ([]*models.Role, error) {
	roles := []*models.Role{}
	if len(ids) == 0 {
		return roles, nil
	}
	err := s.db.NewSelect().
		Model(&roles).
		Where("r.id IN (?)", bun.In(ids)).
		Order("r.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return roles, nil
}

// validate applies the checks a role must pass before it's written.
func (s *bunStore) validate(ctx context.Context, role *models.Role) error {
	if strings.TrimSpace(role.Name) == "" {
		return &StoreError{Messages: []string{s.localizer.T(ctx, i18n.RoleNameRequired)}}
	}

	taken, err := s.db.NewSelect().
		Model((*models.Role)(nil)).
		Where("normalized_name = ?", role.NormalizedName).
		Where("id != ?", role.ID).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if taken {
		return &StoreError{Messages: []string{s.localizer.T(ctx, i18n.RoleNameTaken, role.Name)}}
	}
	return nil
}

func (s *bunStore) Create(ctx context.Context, role *models.Role) error {
	role.NormalizedName = models.NormalizeName(role.Name)
	if err := s.validate(ctx, role); err != nil {
		return err
	}

	now := time.Now()
	role.CreatedAt = now
	role.UpdatedAt = now

	_, err := s.db.NewInsert().Model(role).Exec(ctx)
	return errors.WithStack(err)
}

func (s *bunStore) Update(ctx context.Context, role *models.Role) error {
	role.NormalizedName = models.NormalizeName(role.Name)
	if err := s.validate(ctx, role); err != nil {
		return err
	}

	role.UpdatedAt = time.Now()
	_, err := s.db.NewUpdate().
		Model(role).
		Column("name", "normalized_name", "description", "updated_at").
		WherePK().
		Exec(ctx)
	return errors.WithStack(err)
}

func (s *bunStore) Delete(ctx context.Context, role *models.Role) error {
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*models.RoleClaim)(nil)).
			Where("role_id = ?", role.ID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.NewDelete().
			Model((*models.UserRole)(nil)).
			Where("role_id = ?", role.ID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.NewDelete().
			Model((*models.Role)(nil)).
			Where("id = ?", role.ID).
			Exec(ctx)
		return errors.WithStack(err)
	})
}

func (s *bunStore) Claims(ctx context.Context, roleID string) ([]*models.RoleClaim, error) {
	claims := []*models.RoleClaim{}
	err := s.db.NewSelect().
		Model(&claims).
		Where("rc.role_id = ?", roleID).
		Order("rc.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return claims, nil
}

func (s *bunStore) AddClaim(ctx context.Context, roleID, claimType, claimValue string) error {
	claim := &models.RoleClaim{
		CreatedAt:  time.Now(),
		RoleID:     roleID,
		ClaimType:  claimType,
		ClaimValue: claimValue,
	}
	_, err := s.db.NewInsert().Model(claim).Exec(ctx)
	return errors.WithStack(err)
}

func (s *bunStore) RemoveClaim(ctx context.Context, roleID, claimType, claimValue string) error {
	_, err := s.db.NewDelete().
		Model((*models.RoleClaim)(nil)).
		Where("role_id = ?", roleID).
		Where("claim_type = ?", claimType).
		Where("claim_value = ?", claimValue).
		Exec(ctx)
	return errors.WithStack(err)
}
