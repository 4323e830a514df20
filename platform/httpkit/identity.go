// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity is the authenticated caller as seen by handlers. Handlers read the
// organization they act on from TenantID and never from request input.
type Identity interface {
	UserID() uuid.UUID
	Roles() []string
	HasRole(role string) bool
	// TenantID returns the organization from the token, or nil when absent.
	TenantID() *uuid.UUID
	IsAuthenticated() bool
}

type identity struct {
	userID        uuid.UUID
	roles         []string
	tenantID      *uuid.UUID
	authenticated bool
}

func (i *identity) UserID() uuid.UUID    { return i.userID }
func (i *identity) Roles() []string      { return i.roles }
func (i *identity) TenantID() *uuid.UUID { return i.tenantID }
func (i *identity) IsAuthenticated() bool {
	return i.authenticated
}

func (i *identity) HasRole(role string) bool {
	for _, r := range i.roles {
		if r == role {
			return true
		}
	}
	return false
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if user info is not present.
func GetIdentity(c *gin.Context) Identity {
	userID, userOK := c.Get(ContextUserIDKey)
	if !userOK {
		return &identity{}
	}

	uid, ok := userID.(uuid.UUID)
	if !ok {
		return &identity{}
	}

	var roleList []string
	if roles, ok := c.Get(ContextRolesKey); ok {
		roleList, _ = roles.([]string)
	}

	var tenant *uuid.UUID
	if raw, ok := c.Get(ContextTenantIDKey); ok {
		if parsed, ok := raw.(uuid.UUID); ok {
			tenant = &parsed
		}
	}

	return &identity{
		userID:        uid,
		roles:         roleList,
		tenantID:      tenant,
		authenticated: true,
	}
}

// MustGetIdentity extracts the Identity from a Gin context.
// If the user is not authenticated, it aborts with 401 Unauthorized and returns nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil
	}
	return id
}

// MustGetTenantID resolves the caller's organization. It aborts with 401 when
// the caller is anonymous and 403 when the token carries no organization.
func MustGetTenantID(c *gin.Context) (uuid.UUID, bool) {
	id := MustGetIdentity(c)
	if id == nil {
		return uuid.UUID{}, false
	}
	tenantID := id.TenantID()
	if tenantID == nil {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "organization required"})
		return uuid.UUID{}, false
	}
	return *tenantID, true
}
