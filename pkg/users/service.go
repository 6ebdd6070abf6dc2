package users

import (
	"context"
	"database/sql"
	"time"

	"github.com/brandkeep/brandkeep/pkg/auth"
	"github.com/brandkeep/brandkeep/pkg/errcodes"
	"github.com/brandkeep/brandkeep/pkg/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// Service handles user operations.
type Service struct {
	db *bun.DB
}

// NewService creates a new users service.
func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// CreateUserOptions contains options for creating a user.
type CreateUserOptions struct {
	Username string
	Email    *string
	Password string
	RoleIDs  []string
}

// Create creates a new user and assigns the given roles.
func (s *Service) Create(ctx context.Context, opts CreateUserOptions) (*models.User, error) {
	exists, err := s.db.NewSelect().
		Model((*models.User)(nil)).
		Where("username = ? COLLATE NOCASE", opts.Username).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if exists {
		return nil, errcodes.ValidationError("Username already exists")
	}

	if len(opts.RoleIDs) > 0 {
		count, err := s.db.NewSelect().
			Model((*models.Role)(nil)).
			Where("id IN (?)", bun.In(opts.RoleIDs)).
			Count(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if count != len(opts.RoleIDs) {
			return nil, errcodes.ValidationError("Invalid role ID")
		}
	}

	hashedPassword, err := auth.HashPassword(opts.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.NewString(),
		CreatedAt:    now,
		UpdatedAt:    now,
		Username:     opts.Username,
		Email:        opts.Email,
		PasswordHash: hashedPassword,
		IsActive:     true,
	}

	err = s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(user).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
		for _, roleID := range opts.RoleIDs {
			link := &models.UserRole{UserID: user.ID, RoleID: roleID}
			if _, err := tx.NewInsert().Model(link).Exec(ctx); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("user created", logger.Data{"user_id": user.ID, "username": user.Username})

	return s.Retrieve(ctx, user.ID)
}

// Retrieve gets a user by ID, roles included.
func (s *Service) Retrieve(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("User")
		}
		return nil, errors.WithStack(err)
	}

	if err := auth.LoadRoles(ctx, s.db, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListOptions contains options for listing users.
type ListOptions struct {
	Limit  int
	Offset int
}

// List returns a paginated list of users ordered by username.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]*models.User, int, error) {
	users := []*models.User{}

	query := s.db.NewSelect().
		Model(&users).
		Order("u.username ASC")

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	total, err := query.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return users, total, nil
}

// ListAll returns every user, active or not.
func (s *Service) ListAll(ctx context.Context) ([]*models.User, error) {
	users := []*models.User{}
	err := s.db.NewSelect().
		Model(&users).
		Order("u.username ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return users, nil
}

// IsInRole reports whether the user is assigned the role with the given name.
func (s *Service) IsInRole(ctx context.Context, userID, roleName string) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*models.UserRole)(nil)).
		Join("JOIN roles AS r ON r.id = ur.role_id").
		Where("ur.user_id = ?", userID).
		Where("r.normalized_name = ?", models.NormalizeName(roleName)).
		Exists(ctx)
	return exists, errors.WithStack(err)
}

// RoleIDs returns the IDs of the roles assigned to the user.
func (s *Service) RoleIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.db.NewSelect().
		Model((*models.UserRole)(nil)).
		Column("role_id").
		Where("user_id = ?", userID).
		Scan(ctx, &ids)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return ids, nil
}
