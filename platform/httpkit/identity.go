// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity represents the authenticated caller for one request.
// It is extracted per request from the gin context and passed down explicitly;
// there is no process-wide session.
type Identity interface {
	// UserID returns the authenticated user's ID.
	UserID() uuid.UUID
	// WorkspaceID returns the tenant the request is scoped to.
	WorkspaceID() uuid.UUID
	// Roles returns the user's assigned roles.
	Roles() []string
	// HasRole checks if the user has a specific role.
	HasRole(role string) bool
	// IsAuthenticated returns true if the user is authenticated.
	IsAuthenticated() bool
}

type identity struct {
	userID        uuid.UUID
	workspaceID   uuid.UUID
	roles         []string
	authenticated bool
}

func (i *identity) UserID() uuid.UUID      { return i.userID }
func (i *identity) WorkspaceID() uuid.UUID { return i.workspaceID }
func (i *identity) Roles() []string        { return i.roles }
func (i *identity) IsAuthenticated() bool  { return i.authenticated }

func (i *identity) HasRole(role string) bool {
	for _, r := range i.roles {
		if r == role {
			return true
		}
	}
	return false
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if user or workspace info is not present.
func GetIdentity(c *gin.Context) Identity {
	userValue, userOK := c.Get(ContextUserIDKey)
	workspaceValue, workspaceOK := c.Get(ContextWorkspaceIDKey)
	if !userOK || !workspaceOK {
		return &identity{authenticated: false}
	}

	userID, ok := userValue.(uuid.UUID)
	if !ok {
		return &identity{authenticated: false}
	}
	workspaceID, ok := workspaceValue.(uuid.UUID)
	if !ok {
		return &identity{authenticated: false}
	}

	var roleList []string
	if roles, ok := c.Get(ContextRolesKey); ok {
		roleList, _ = roles.([]string)
	}

	return &identity{
		userID:        userID,
		workspaceID:   workspaceID,
		roles:         roleList,
		authenticated: true,
	}
}

// MustGetIdentity extracts the Identity from a Gin context.
// If the caller is not authenticated, it aborts with 401 Unauthorized and returns nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		abortUnauthorized(c, "unauthorized")
		return nil
	}
	return id
}

// SetIdentity stores an identity on the gin context. Used by tests and by
// middleware that authenticates through a channel other than bearer tokens.
func SetIdentity(c *gin.Context, userID, workspaceID uuid.UUID, roles ...string) {
	c.Set(ContextUserIDKey, userID)
	c.Set(ContextWorkspaceIDKey, workspaceID)
	c.Set(ContextRolesKey, roles)
}
