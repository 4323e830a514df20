package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fish_and_follow_backend/internal/users/repository"
	"fish_and_follow_backend/internal/users/service"
	"fish_and_follow_backend/platform/httpkit"
	"fish_and_follow_backend/platform/logger"
	"fish_and_follow_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memRepo implements the subset of the repository the routes below reach.
type memRepo struct {
	service.Repository
	users []repository.User
}

func (m *memRepo) SearchUsers(_ context.Context, _ repository.SearchParams) ([]repository.User, error) {
	return m.users, nil
}

func (m *memRepo) CreateUser(_ context.Context, p repository.CreateUserParams, membership *repository.Membership) (repository.User, []repository.Role, error) {
	now := time.Now()
	u := repository.User{ID: uuid.New(), Username: p.Username, Email: p.Email, CreatedAt: now, UpdatedAt: now}
	m.users = append(m.users, u)
	roles := []repository.Role{}
	if membership != nil {
		roles = append(roles, repository.Role{ID: uuid.New(), OrganizationID: membership.OrganizationID, UserID: u.ID, Role: membership.Role})
	}
	return u, roles, nil
}

func (m *memRepo) DeleteUser(_ context.Context, _ uuid.UUID) error { return nil }

func (m *memRepo) GetRole(_ context.Context, _ uuid.UUID) (repository.Role, error) {
	return repository.Role{}, repository.ErrRoleNotFound
}

func newEngine(repo *memRepo, roles []string, tenantID uuid.UUID) *gin.Engine {
	val := validator.New()
	h := New(service.New(repo, val, logger.Discard()), val)

	engine := gin.New()
	identity := func(c *gin.Context) {
		c.Set(httpkit.ContextUserIDKey, uuid.New())
		c.Set(httpkit.ContextRolesKey, roles)
		c.Set(httpkit.ContextTenantIDKey, tenantID)
		c.Next()
	}
	h.RegisterUserRoutes(engine.Group("/api/users", identity))
	h.RegisterRoleRoutes(engine.Group("/api/roles", identity))
	return engine
}

func do(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestUserAndRoleRoutesAreAdminOnly(t *testing.T) {
	engine := newEngine(&memRepo{}, []string{"staff"}, uuid.New())

	for _, path := range []string{"/api/users", "/api/users/search", "/api/roles"} {
		if rec := do(engine, http.MethodGet, path, ""); rec.Code != http.StatusForbidden {
			t.Fatalf("%s: expected 403, got %d", path, rec.Code)
		}
	}
}

func TestCreateUserReturns201WithRole(t *testing.T) {
	tenant := uuid.New()
	engine := newEngine(&memRepo{}, []string{"admin"}, tenant)

	rec := do(engine, http.MethodPost, "/api/users", `{"username":"sam","email":"sam@example.com","role":"staff"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Roles []struct {
			OrgID string `json:"orgId"`
			Role  string `json:"role"`
		} `json:"roles"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Roles) != 1 || body.Roles[0].OrgID != tenant.String() || body.Roles[0].Role != "staff" {
		t.Fatalf("unexpected roles %+v", body.Roles)
	}
}

func TestCreateUserBlankUsernameIs400(t *testing.T) {
	engine := newEngine(&memRepo{}, []string{"admin"}, uuid.New())

	rec := do(engine, http.MethodPost, "/api/users", `{"username":"   ","email":"sam@example.com"}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "username is required") {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestSearchUsersEnvelope(t *testing.T) {
	repo := &memRepo{users: []repository.User{{ID: uuid.New(), Username: "ana", Email: "ana@example.com"}}}
	engine := newEngine(repo, []string{"admin"}, uuid.New())

	rec := do(engine, http.MethodGet, "/api/users/search?search=ana&role=all&limit=0", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["success"] != true || body["query"] != "ana" || body["total"] != float64(1) {
		t.Fatalf("unexpected envelope %v", body)
	}
}

func TestRoleRoutes(t *testing.T) {
	engine := newEngine(&memRepo{}, []string{"admin"}, uuid.New())

	rec := do(engine, http.MethodPost, "/api/roles", `{"orgId":"`+uuid.NewString()+`","role":"staff"}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "userId is required") {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}

	rec = do(engine, http.MethodGet, "/api/roles/"+uuid.NewString(), "")
	if rec.Code != http.StatusNotFound || rec.Body.String() != `{"error":"Role not found"}` {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}

	rec = do(engine, http.MethodDelete, "/api/roles/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", rec.Code)
	}
}

func TestDeleteUserReturns204(t *testing.T) {
	engine := newEngine(&memRepo{}, []string{"admin"}, uuid.New())

	if rec := do(engine, http.MethodDelete, "/api/users/"+uuid.NewString(), ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
