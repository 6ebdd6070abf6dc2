package roles

import (
	"context"
	"database/sql"
	"strings"

	"github.com/brandkeep/brandkeep/pkg/errcodes"
	"github.com/brandkeep/brandkeep/pkg/i18n"
	"github.com/brandkeep/brandkeep/pkg/models"
	"github.com/brandkeep/brandkeep/pkg/permissions"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// RoleResponse is a role as returned to callers.
type RoleResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	IsDefault   bool     `json:"is_default"`
	Permissions []string `json:"permissions,omitempty"`
}

func toResponse(role *models.Role) *RoleResponse {
	return &RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		IsDefault:   role.IsDefault(),
	}
}

type UpsertRoleOptions struct {
	// ID is empty when registering a new role.
	ID          string
	Name        string
	Description string
}

type UpdatePermissionsOptions struct {
	RoleID      string
	Permissions []string
	// CurrentUserID is the user making the change.
	CurrentUserID string
}

// Service handles role operations.
type Service struct {
	store     Store
	users     UserStore
	localizer *i18n.Localizer
}

// NewService creates a new roles service backed by db.
func NewService(db *bun.DB, users UserStore, localizer *i18n.Localizer) *Service {
	return NewServiceWithStore(NewStore(db, localizer), users, localizer)
}

// NewServiceWithStore creates a new roles service on top of the given stores.
func NewServiceWithStore(store Store, users UserStore, localizer *i18n.Localizer) *Service {
	return &Service{store: store, users: users, localizer: localizer}
}

func (s *Service) findRole(ctx context.Context, id string) (*models.Role, error) {
	role, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound(s.localizer.T(ctx, i18n.RoleNotFound))
		}
		return nil, err
	}
	return role, nil
}

// writeFailed turns a rejected write into an InternalError that carries the
// store's messages.
func (s *Service) writeFailed(ctx context.Context, key string, err error) error {
	logger.FromContext(ctx).Err(err).Warn("role store write failed")

	var serr *StoreError
	if errors.As(err, &serr) {
		return errcodes.InternalError(s.localizer.T(ctx, key), serr.Messages...)
	}
	return errcodes.InternalError(s.localizer.T(ctx, key), err.Error())
}

// Retrieve gets a role by ID.
func (s *Service) Retrieve(ctx context.Context, id string) (*RoleResponse, error) {
	role, err := s.findRole(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(role), nil
}

// List returns every role ordered by name.
func (s *Service) List(ctx context.Context) ([]*RoleResponse, error) {
	roles, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]*RoleResponse, 0, len(roles))
	for _, r := range roles {
		resp = append(resp, toResponse(r))
	}
	return resp, nil
}

// RetrieveWithPermissions gets a role by ID along with the permissions it
// grants.
func (s *Service) RetrieveWithPermissions(ctx context.Context, id string) (*RoleResponse, error) {
	role, err := s.findRole(ctx, id)
	if err != nil {
		return nil, err
	}

	current, err := s.currentPermissions(ctx, role.ID)
	if err != nil {
		return nil, err
	}

	resp := toResponse(role)
	resp.Permissions = current.Sorted()
	return resp, nil
}

// ListForUser returns the roles assigned to the user.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]*RoleResponse, error) {
	ids, err := s.users.RoleIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	roles, err := s.store.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	resp := make([]*RoleResponse, 0, len(roles))
	for _, r := range roles {
		resp = append(resp, toResponse(r))
	}
	return resp, nil
}

// NameExists reports whether a role other than excludeID already uses name.
func (s *Service) NameExists(ctx context.Context, name, excludeID string) (bool, error) {
	role, err := s.store.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return role.ID != excludeID, nil
}

// Upsert registers a new role when opts.ID is empty and updates the existing
// one otherwise. Default roles can't be updated.
func (s *Service) Upsert(ctx context.Context, opts UpsertRoleOptions) (string, error) {
	log := logger.FromContext(ctx)

	if opts.ID == "" {
		role := &models.Role{
			ID:          uuid.NewString(),
			Name:        strings.TrimSpace(opts.Name),
			Description: opts.Description,
		}
		if err := s.store.Create(ctx, role); err != nil {
			return "", s.writeFailed(ctx, i18n.RoleCreateFailed, err)
		}
		log.Info("role created", logger.Data{"role_id": role.ID, "name": role.Name})
		return s.localizer.T(ctx, i18n.RoleCreated, role.Name), nil
	}

	role, err := s.findRole(ctx, opts.ID)
	if err != nil {
		return "", err
	}
	if role.IsDefault() {
		return "", errcodes.Conflict(s.localizer.T(ctx, i18n.RoleModifyDefault, role.Name))
	}

	role.Name = strings.TrimSpace(opts.Name)
	role.NormalizedName = models.NormalizeName(role.Name)
	role.Description = opts.Description
	if err := s.store.Update(ctx, role); err != nil {
		return "", s.writeFailed(ctx, i18n.RoleUpdateFailed, err)
	}

	log.Info("role updated", logger.Data{"role_id": role.ID, "name": role.Name})
	return s.localizer.T(ctx, i18n.RoleUpdated, role.Name), nil
}

// Delete removes a role that is neither a default role nor assigned to any
// user.
func (s *Service) Delete(ctx context.Context, id string) (string, error) {
	role, err := s.findRole(ctx, id)
	if err != nil {
		return "", err
	}
	if role.IsDefault() {
		return "", errcodes.Conflict(s.localizer.T(ctx, i18n.RoleDeleteDefault, role.Name))
	}

	// TODO: replace the scan with a single membership query on user_roles once
	// UserStore grows one.
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return "", err
	}
	for _, u := range users {
		inRole, err := s.users.IsInRole(ctx, u.ID, role.Name)
		if err != nil {
			return "", err
		}
		if inRole {
			return "", errcodes.Conflict(s.localizer.T(ctx, i18n.RoleDeleteInUse, role.Name))
		}
	}

	if err := s.store.Delete(ctx, role); err != nil {
		return "", s.writeFailed(ctx, i18n.RoleDeleteFailed, err)
	}

	logger.FromContext(ctx).Info("role deleted", logger.Data{"role_id": role.ID, "name": role.Name})
	return s.localizer.T(ctx, i18n.RoleDeleted, role.Name), nil
}

func (s *Service) currentPermissions(ctx context.Context, roleID string) (permissions.Set, error) {
	claims, err := s.store.Claims(ctx, roleID)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(claims))
	for _, c := range claims {
		if c.ClaimType == permissions.ClaimType {
			values = append(values, c.ClaimValue)
		}
	}
	return permissions.NewSet(values...), nil
}

// UpdatePermissions makes the role grant exactly opts.Permissions. Removals
// are applied before additions and the first failing write stops the sync
// without undoing the writes before it.
//
// Only members of the Admin role may change the Admin role's permissions, and
// the Admin role always keeps permissions.AdminRequired.
func (s *Service) UpdatePermissions(ctx context.Context, opts UpdatePermissionsOptions) (string, error) {
	log := logger.FromContext(ctx)

	role, err := s.findRole(ctx, opts.RoleID)
	if err != nil {
		return "", err
	}

	requested := permissions.NewSet(opts.Permissions...)

	if strings.EqualFold(role.Name, permissions.RoleAdmin) {
		isAdmin, err := s.users.IsInRole(ctx, opts.CurrentUserID, permissions.RoleAdmin)
		if err != nil {
			return "", err
		}
		if !isAdmin {
			return "", errcodes.Conflict(s.localizer.T(ctx, i18n.PermissionsNotAllowed))
		}
		if missing := requested.Missing(permissions.AdminRequired); len(missing) > 0 {
			return "", errcodes.Conflict(s.localizer.T(ctx, i18n.PermissionsRequired, role.Name, strings.Join(missing, ", ")))
		}
	}

	current, err := s.currentPermissions(ctx, role.ID)
	if err != nil {
		return "", err
	}

	toRemove, toAdd := permissions.Diff(current, requested)

	for _, p := range toRemove {
		if err := s.store.RemoveClaim(ctx, role.ID, permissions.ClaimType, p); err != nil {
			return "", s.writeFailed(ctx, i18n.PermissionsUpdateFailed, err)
		}
	}
	for _, p := range toAdd {
		if err := s.store.AddClaim(ctx, role.ID, permissions.ClaimType, p); err != nil {
			return "", s.writeFailed(ctx, i18n.PermissionsUpdateFailed, err)
		}
	}

	log.Info("role permissions updated", logger.Data{
		"role_id": role.ID,
		"removed": toRemove,
		"added":   toAdd,
	})
	return s.localizer.T(ctx, i18n.PermissionsUpdated), nil
}
