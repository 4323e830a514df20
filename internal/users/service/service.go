// Package service holds the user directory and role assignment rules.
package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"fish_and_follow_backend/internal/users/repository"
	"fish_and_follow_backend/internal/users/transport"
	"fish_and_follow_backend/platform/apperr"
	"fish_and_follow_backend/platform/logger"
	"fish_and_follow_backend/platform/validator"

	"github.com/google/uuid"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 100
	filterAll          = "all"
)

var roleNames = []string{"admin", "staff"}

type Repository interface {
	ListUsers(ctx context.Context) ([]repository.User, error)
	SearchUsers(ctx context.Context, params repository.SearchParams) ([]repository.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (repository.User, error)
	CreateUser(ctx context.Context, params repository.CreateUserParams, membership *repository.Membership) (repository.User, []repository.Role, error)
	UpdateUser(ctx context.Context, id uuid.UUID, params repository.UpdateUserParams, membership *repository.Membership) (repository.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	RolesForUser(ctx context.Context, userID uuid.UUID) ([]repository.Role, error)
	ListRoles(ctx context.Context) ([]repository.Role, error)
	GetRole(ctx context.Context, id uuid.UUID) (repository.Role, error)
	CreateRole(ctx context.Context, params repository.RoleParams) (repository.Role, error)
	UpdateRole(ctx context.Context, id uuid.UUID, params repository.RoleParams) (repository.Role, error)
	DeleteRole(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
	val  *validator.Validator
	log  *logger.Logger
	now  func() time.Time
}

func New(repo Repository, val *validator.Validator, log *logger.Logger) *Service {
	return &Service{repo: repo, val: val, log: log, now: time.Now}
}

func (s *Service) List(ctx context.Context) ([]transport.UserResponse, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}

// Search matches username or email and filters by role. The limit follows
// the contact search rules: clamped to [1, 100], default 50.
func (s *Service) Search(ctx context.Context, req transport.SearchRequest) (*transport.SearchResponse, error) {
	params := repository.SearchParams{
		Search: strings.TrimSpace(req.Search),
		Limit:  clampLimit(req.Limit),
	}
	if role := strings.TrimSpace(req.Role); isRoleName(role) {
		params.Role = &role
	}

	users, err := s.repo.SearchUsers(ctx, params)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Failed to search users", err).WithOp("users.Search")
	}
	if len(users) > params.Limit {
		users = users[:params.Limit]
	}

	s.log.WithContext(ctx).Info("user search", "matches", len(users), "search", params.Search != "")

	var query *string
	if params.Search != "" {
		q := params.Search
		query = &q
	}
	return &transport.SearchResponse{
		Success:   true,
		Users:     toUserResponses(users),
		Query:     query,
		Total:     len(users),
		Timestamp: s.now().UTC(),
	}, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.UserResponse, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return transport.UserResponse{}, err
	}
	roles, err := s.repo.RolesForUser(ctx, id)
	if err != nil {
		return transport.UserResponse{}, err
	}
	return toUserResponse(u, roles), nil
}

// Create stores a user. A role places the user in the requested
// organization, defaulting to the caller's.
func (s *Service) Create(ctx context.Context, organizationID uuid.UUID, req transport.CreateUserRequest) (transport.UserResponse, error) {
	req.Normalize()
	if err := s.validate(req); err != nil {
		return transport.UserResponse{}, err
	}

	params := repository.CreateUserParams{Username: req.Username, Email: req.Email}
	if req.ContactID != nil {
		contactID := uuid.MustParse(*req.ContactID)
		params.ContactID = &contactID
	}
	membership := toMembership(organizationID, req.Role, req.OrgID)

	u, roles, err := s.repo.CreateUser(ctx, params, membership)
	if err != nil {
		return transport.UserResponse{}, err
	}
	s.log.WithContext(ctx).Info("user created", "userId", u.ID, "roles", len(roles))
	return toUserResponse(u, roles), nil
}

func (s *Service) Update(ctx context.Context, organizationID, id uuid.UUID, req transport.UpdateUserRequest) (transport.UserResponse, error) {
	req.Normalize()
	if err := s.validate(req); err != nil {
		return transport.UserResponse{}, err
	}

	params := repository.UpdateUserParams{Username: req.Username, Email: req.Email}
	if req.ContactID != nil {
		if *req.ContactID == "" {
			params.ClearContact = true
		} else {
			contactID := uuid.MustParse(*req.ContactID)
			params.ContactID = &contactID
		}
	}

	if _, err := s.repo.UpdateUser(ctx, id, params, toMembership(organizationID, req.Role, req.OrgID)); err != nil {
		return transport.UserResponse{}, err
	}
	return s.Get(ctx, id)
}

// Delete removes a user and its roles if it exists.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.log.WithContext(ctx).Info("user deleted", "userId", id)
	return nil
}

func (s *Service) ListRoles(ctx context.Context) ([]transport.RoleResponse, error) {
	roles, err := s.repo.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	return toRoleResponses(roles), nil
}

func (s *Service) GetRole(ctx context.Context, id uuid.UUID) (transport.RoleResponse, error) {
	role, err := s.repo.GetRole(ctx, id)
	if err != nil {
		return transport.RoleResponse{}, err
	}
	return toRoleResponse(role), nil
}

func (s *Service) CreateRole(ctx context.Context, req transport.RoleRequest) (transport.RoleResponse, error) {
	params, err := s.roleParams(req)
	if err != nil {
		return transport.RoleResponse{}, err
	}
	role, err := s.repo.CreateRole(ctx, params)
	if err != nil {
		return transport.RoleResponse{}, err
	}
	s.log.WithContext(ctx).Info("role assigned", "userId", role.UserID, "organizationId", role.OrganizationID, "role", role.Role)
	return toRoleResponse(role), nil
}

func (s *Service) UpdateRole(ctx context.Context, id uuid.UUID, req transport.RoleRequest) (transport.RoleResponse, error) {
	params, err := s.roleParams(req)
	if err != nil {
		return transport.RoleResponse{}, err
	}
	role, err := s.repo.UpdateRole(ctx, id, params)
	if err != nil {
		return transport.RoleResponse{}, err
	}
	return toRoleResponse(role), nil
}

func (s *Service) DeleteRole(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteRole(ctx, id)
}

func (s *Service) roleParams(req transport.RoleRequest) (repository.RoleParams, error) {
	req.Normalize()
	if err := s.validate(req); err != nil {
		return repository.RoleParams{}, err
	}
	return repository.RoleParams{
		OrganizationID: uuid.MustParse(req.OrgID),
		UserID:         uuid.MustParse(req.UserID),
		Role:           req.Role,
	}, nil
}

func (s *Service) validate(req interface{}) error {
	if err := s.val.Struct(req); err != nil {
		return apperr.Validation(validator.Describe(err))
	}
	return nil
}

func toMembership(callerOrg uuid.UUID, role, orgID *string) *repository.Membership {
	if role == nil {
		return nil
	}
	membership := &repository.Membership{OrganizationID: callerOrg, Role: *role}
	if orgID != nil {
		membership.OrganizationID = uuid.MustParse(*orgID)
	}
	return membership
}

func isRoleName(value string) bool {
	if value == "" || strings.EqualFold(value, filterAll) {
		return false
	}
	for _, name := range roleNames {
		if value == name {
			return true
		}
	}
	return false
}

func clampLimit(raw string) int {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return defaultSearchLimit
	}
	if limit < 1 {
		return 1
	}
	if limit > maxSearchLimit {
		return maxSearchLimit
	}
	return limit
}

func toUserResponses(users []repository.User) []transport.UserResponse {
	out := make([]transport.UserResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u, nil)
	}
	return out
}

func toUserResponse(u repository.User, roles []repository.Role) transport.UserResponse {
	resp := transport.UserResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.ContactID != nil {
		contactID := u.ContactID.String()
		resp.ContactID = &contactID
	}
	if len(roles) > 0 {
		resp.Roles = toRoleResponses(roles)
	}
	return resp
}

func toRoleResponses(roles []repository.Role) []transport.RoleResponse {
	out := make([]transport.RoleResponse, len(roles))
	for i, role := range roles {
		out[i] = toRoleResponse(role)
	}
	return out
}

func toRoleResponse(role repository.Role) transport.RoleResponse {
	return transport.RoleResponse{
		ID:        role.ID.String(),
		OrgID:     role.OrganizationID.String(),
		UserID:    role.UserID.String(),
		Role:      role.Role,
		CreatedAt: role.CreatedAt,
	}
}
