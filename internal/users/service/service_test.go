package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"fish_and_follow_backend/internal/users/repository"
	"fish_and_follow_backend/internal/users/transport"
	"fish_and_follow_backend/platform/apperr"
	"fish_and_follow_backend/platform/logger"
	"fish_and_follow_backend/platform/validator"

	"github.com/google/uuid"
)

type fakeRepo struct {
	users      map[uuid.UUID]repository.User
	roles      map[uuid.UUID]repository.Role
	lastSearch repository.SearchParams
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[uuid.UUID]repository.User{}, roles: map[uuid.UUID]repository.Role{}}
}

func (f *fakeRepo) ListUsers(_ context.Context) ([]repository.User, error) {
	out := make([]repository.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeRepo) SearchUsers(_ context.Context, params repository.SearchParams) ([]repository.User, error) {
	f.lastSearch = params
	out := make([]repository.User, 0)
	for _, u := range f.users {
		if params.Search == "" || strings.Contains(strings.ToLower(u.Username+" "+u.Email), strings.ToLower(params.Search)) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetUser(_ context.Context, id uuid.UUID) (repository.User, error) {
	u, ok := f.users[id]
	if !ok {
		return repository.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeRepo) CreateUser(_ context.Context, params repository.CreateUserParams, membership *repository.Membership) (repository.User, []repository.Role, error) {
	for _, existing := range f.users {
		if strings.EqualFold(existing.Email, params.Email) {
			return repository.User{}, nil, repository.ErrDuplicateEmail
		}
	}
	now := time.Now()
	u := repository.User{ID: uuid.New(), Username: params.Username, Email: params.Email, ContactID: params.ContactID, CreatedAt: now, UpdatedAt: now}
	f.users[u.ID] = u

	roles := []repository.Role{}
	if membership != nil {
		roles = append(roles, f.upsert(membership.OrganizationID, u.ID, membership.Role))
	}
	return u, roles, nil
}

func (f *fakeRepo) UpdateUser(_ context.Context, id uuid.UUID, params repository.UpdateUserParams, membership *repository.Membership) (repository.User, error) {
	u, ok := f.users[id]
	if !ok {
		return repository.User{}, repository.ErrUserNotFound
	}
	if params.Username != nil {
		u.Username = *params.Username
	}
	if params.Email != nil {
		u.Email = *params.Email
	}
	if params.ClearContact {
		u.ContactID = nil
	} else if params.ContactID != nil {
		u.ContactID = params.ContactID
	}
	f.users[id] = u
	if membership != nil {
		f.upsert(membership.OrganizationID, id, membership.Role)
	}
	return u, nil
}

func (f *fakeRepo) DeleteUser(_ context.Context, id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

func (f *fakeRepo) RolesForUser(_ context.Context, userID uuid.UUID) ([]repository.Role, error) {
	out := make([]repository.Role, 0)
	for _, role := range f.roles {
		if role.UserID == userID {
			out = append(out, role)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListRoles(_ context.Context) ([]repository.Role, error) {
	out := make([]repository.Role, 0, len(f.roles))
	for _, role := range f.roles {
		out = append(out, role)
	}
	return out, nil
}

func (f *fakeRepo) GetRole(_ context.Context, id uuid.UUID) (repository.Role, error) {
	role, ok := f.roles[id]
	if !ok {
		return repository.Role{}, repository.ErrRoleNotFound
	}
	return role, nil
}

func (f *fakeRepo) CreateRole(_ context.Context, params repository.RoleParams) (repository.Role, error) {
	for _, role := range f.roles {
		if role.OrganizationID == params.OrganizationID && role.UserID == params.UserID {
			return repository.Role{}, repository.ErrDuplicateRole
		}
	}
	role := repository.Role{ID: uuid.New(), OrganizationID: params.OrganizationID, UserID: params.UserID, Role: params.Role}
	f.roles[role.ID] = role
	return role, nil
}

func (f *fakeRepo) UpdateRole(_ context.Context, id uuid.UUID, params repository.RoleParams) (repository.Role, error) {
	role, ok := f.roles[id]
	if !ok {
		return repository.Role{}, repository.ErrRoleNotFound
	}
	role.OrganizationID, role.UserID, role.Role = params.OrganizationID, params.UserID, params.Role
	f.roles[id] = role
	return role, nil
}

func (f *fakeRepo) DeleteRole(_ context.Context, id uuid.UUID) error {
	if _, ok := f.roles[id]; !ok {
		return repository.ErrRoleNotFound
	}
	delete(f.roles, id)
	return nil
}

func (f *fakeRepo) upsert(orgID, userID uuid.UUID, name string) repository.Role {
	for id, role := range f.roles {
		if role.OrganizationID == orgID && role.UserID == userID {
			role.Role = name
			f.roles[id] = role
			return role
		}
	}
	role := repository.Role{ID: uuid.New(), OrganizationID: orgID, UserID: userID, Role: name}
	f.roles[role.ID] = role
	return role
}

func newService(repo *fakeRepo) *Service {
	return New(repo, validator.New(), logger.Discard())
}

func strPtr(s string) *string { return &s }

func TestCreateUserJoinsCallerOrganization(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)
	orgID := uuid.New()

	user, err := svc.Create(context.Background(), orgID, transport.CreateUserRequest{
		Username: "  sam  ",
		Email:    "sam@example.com",
		Role:     strPtr("staff"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.Username != "sam" {
		t.Fatalf("expected trimmed username, got %q", user.Username)
	}
	if len(user.Roles) != 1 || user.Roles[0].OrgID != orgID.String() || user.Roles[0].Role != "staff" {
		t.Fatalf("unexpected roles %+v", user.Roles)
	}
}

func TestCreateUserRejectsBlankUsername(t *testing.T) {
	svc := newService(newFakeRepo())

	_, err := svc.Create(context.Background(), uuid.New(), transport.CreateUserRequest{Username: "   ", Email: "a@example.com"})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateUserDuplicateEmailConflicts(t *testing.T) {
	svc := newService(newFakeRepo())
	req := transport.CreateUserRequest{Username: "a", Email: "a@example.com"}
	if _, err := svc.Create(context.Background(), uuid.New(), req); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(context.Background(), uuid.New(), req); apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateUserChangesRoleAndClearsContact(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)
	orgID := uuid.New()
	contactID := uuid.New().String()

	created, err := svc.Create(context.Background(), orgID, transport.CreateUserRequest{
		Username: "kim", Email: "kim@example.com", ContactID: &contactID, Role: strPtr("staff"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := uuid.MustParse(created.ID)

	updated, err := svc.Update(context.Background(), orgID, id, transport.UpdateUserRequest{
		ContactID: strPtr(""),
		Role:      strPtr("admin"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ContactID != nil {
		t.Fatalf("expected contact to be cleared, got %v", *updated.ContactID)
	}
	if len(updated.Roles) != 1 || updated.Roles[0].Role != "admin" {
		t.Fatalf("expected single admin role, got %+v", updated.Roles)
	}
}

func TestUpdateUserRejectsBlankUsername(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)
	created, err := svc.Create(context.Background(), uuid.New(), transport.CreateUserRequest{Username: "lee", Email: "lee@example.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Update(context.Background(), uuid.New(), uuid.MustParse(created.ID), transport.UpdateUserRequest{Username: strPtr("  ")})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := repo.users[uuid.MustParse(created.ID)].Username; got != "lee" {
		t.Fatalf("expected username to stay unchanged, got %q", got)
	}
}

func TestSearchUsersClampsLimitAndIgnoresUnknownRole(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)

	cases := map[string]int{"": 50, "0": 1, "abc": 50, "500": 100, "7": 7}
	for raw, want := range cases {
		if _, err := svc.Search(context.Background(), transport.SearchRequest{Limit: raw, Role: "robot"}); err != nil {
			t.Fatalf("search: %v", err)
		}
		if repo.lastSearch.Limit != want {
			t.Fatalf("limit %q: expected %d, got %d", raw, want, repo.lastSearch.Limit)
		}
		if repo.lastSearch.Role != nil {
			t.Fatalf("expected unknown role to be ignored")
		}
	}

	if _, err := svc.Search(context.Background(), transport.SearchRequest{Role: "admin"}); err != nil {
		t.Fatalf("search: %v", err)
	}
	if repo.lastSearch.Role == nil || *repo.lastSearch.Role != "admin" {
		t.Fatalf("expected admin role filter")
	}
}

func TestSearchUsersEnvelope(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)
	for _, name := range []string{"ana", "bob"} {
		if _, err := svc.Create(context.Background(), uuid.New(), transport.CreateUserRequest{Username: name, Email: name + "@example.com"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	result, err := svc.Search(context.Background(), transport.SearchRequest{Search: " ana "})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !result.Success || result.Total != 1 || result.Query == nil || *result.Query != "ana" {
		t.Fatalf("unexpected envelope %+v", result)
	}
	if result.Timestamp.IsZero() {
		t.Fatal("expected timestamp")
	}
}

func TestRoleLifecycle(t *testing.T) {
	svc := newService(newFakeRepo())
	req := transport.RoleRequest{OrgID: uuid.New().String(), UserID: uuid.New().String(), Role: "staff"}

	role, err := svc.CreateRole(context.Background(), req)
	if err != nil {
		t.Fatalf("create role: %v", err)
	}
	if _, err := svc.CreateRole(context.Background(), req); apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}

	req.Role = "admin"
	id := uuid.MustParse(role.ID)
	updated, err := svc.UpdateRole(context.Background(), id, req)
	if err != nil || updated.Role != "admin" {
		t.Fatalf("update role: %+v %v", updated, err)
	}

	if err := svc.DeleteRole(context.Background(), id); err != nil {
		t.Fatalf("delete role: %v", err)
	}
	if err := svc.DeleteRole(context.Background(), id); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRoleRequestRequiresAllFields(t *testing.T) {
	svc := newService(newFakeRepo())
	_, err := svc.CreateRole(context.Background(), transport.RoleRequest{OrgID: uuid.New().String(), Role: "staff"})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	_, err = svc.CreateRole(context.Background(), transport.RoleRequest{OrgID: uuid.New().String(), UserID: uuid.New().String(), Role: "owner"})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for unknown role, got %v", err)
	}
}
