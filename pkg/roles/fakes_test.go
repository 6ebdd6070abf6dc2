package roles

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/brandkeep/brandkeep/pkg/models"
	"github.com/pkg/errors"
)

type mutation struct {
	op    string
	value string
}

// fakeStore keeps roles in memory and records every claim mutation.
type fakeStore struct {
	roles     map[string]*models.Role
	claims    map[string][]string
	mutations []mutation
	// failOn makes the mutation with the given op and value fail.
	failOn *mutation
}

func newFakeStore(roles ...*models.Role) *fakeStore {
	s := &fakeStore{
		roles:  map[string]*models.Role{},
		claims: map[string][]string{},
	}
	for _, r := range roles {
		s.roles[r.ID] = r
	}
	return s
}

func (s *fakeStore) FindByID(_ context.Context, id string) (*models.Role, error) {
	r, ok := s.roles[id]
	if !ok {
		return nil, errors.WithStack(sql.ErrNoRows)
	}
	cp := *r
	return &cp, nil
}

func (s *fakeStore) FindByName(_ context.Context, name string) (*models.Role, error) {
	for _, r := range s.roles {
		if models.NormalizeName(r.Name) == models.NormalizeName(name) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, errors.WithStack(sql.ErrNoRows)
}

func (s *fakeStore) List(_ context.Context) ([]*models.Role, error) {
	out := make([]*models.Role, 0, len(s.roles))
	for _, r := range s.roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *fakeStore) ListByIDs(ctx context.Context, ids []string) ([]*models.Role, error) {
	out := []*models.Role{}
	for _, id := range ids {
		if r, ok := s.roles[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) checkName(role *models.Role) error {
	if strings.TrimSpace(role.Name) == "" {
		return &StoreError{Messages: []string{"Role name is required."}}
	}
	for _, r := range s.roles {
		if r.ID != role.ID && models.NormalizeName(r.Name) == models.NormalizeName(role.Name) {
			return &StoreError{Messages: []string{fmt.Sprintf("Role name '%s' is already taken.", role.Name)}}
		}
	}
	return nil
}

func (s *fakeStore) Create(_ context.Context, role *models.Role) error {
	if err := s.checkName(role); err != nil {
		return err
	}
	s.mutations = append(s.mutations, mutation{"create", role.Name})
	s.roles[role.ID] = role
	return nil
}

func (s *fakeStore) Update(_ context.Context, role *models.Role) error {
	if err := s.checkName(role); err != nil {
		return err
	}
	s.mutations = append(s.mutations, mutation{"update", role.Name})
	s.roles[role.ID] = role
	return nil
}

func (s *fakeStore) Delete(_ context.Context, role *models.Role) error {
	s.mutations = append(s.mutations, mutation{"delete", role.Name})
	delete(s.roles, role.ID)
	delete(s.claims, role.ID)
	return nil
}

func (s *fakeStore) Claims(_ context.Context, roleID string) ([]*models.RoleClaim, error) {
	out := []*models.RoleClaim{}
	for _, v := range s.claims[roleID] {
		out = append(out, &models.RoleClaim{RoleID: roleID, ClaimType: "permission", ClaimValue: v})
	}
	return out, nil
}

func (s *fakeStore) fail(m mutation) error {
	if s.failOn != nil && *s.failOn == m {
		return errors.New(m.op + " " + m.value + " failed")
	}
	return nil
}

func (s *fakeStore) AddClaim(_ context.Context, roleID, _, claimValue string) error {
	m := mutation{"add", claimValue}
	if err := s.fail(m); err != nil {
		return err
	}
	s.mutations = append(s.mutations, m)
	s.claims[roleID] = append(s.claims[roleID], claimValue)
	return nil
}

func (s *fakeStore) RemoveClaim(_ context.Context, roleID, _, claimValue string) error {
	m := mutation{"remove", claimValue}
	if err := s.fail(m); err != nil {
		return err
	}
	s.mutations = append(s.mutations, m)
	kept := []string{}
	for _, v := range s.claims[roleID] {
		if v != claimValue {
			kept = append(kept, v)
		}
	}
	s.claims[roleID] = kept
	return nil
}

// fakeUsers maps user IDs to the names of the roles they hold.
type fakeUsers struct {
	members map[string][]string
	roleIDs map[string][]string
}

func (u *fakeUsers) ListAll(_ context.Context) ([]*models.User, error) {
	out := []*models.User{}
	for id := range u.members {
		out = append(out, &models.User{ID: id})
	}
	return out, nil
}

func (u *fakeUsers) IsInRole(_ context.Context, userID, roleName string) (bool, error) {
	for _, name := range u.members[userID] {
		if strings.EqualFold(name, roleName) {
			return true, nil
		}
	}
	return false, nil
}

func (u *fakeUsers) RoleIDs(_ context.Context, userID string) ([]string, error) {
	return u.roleIDs[userID], nil
}
