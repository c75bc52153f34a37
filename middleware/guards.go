package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"

	"notekeeper/model"
	"notekeeper/repository"
	"notekeeper/utils"

	"github.com/gin-gonic/gin"
)

// Owned is any resource that knows its owner by internal user id and by the
// identity provider's subject id.
type Owned interface {
	OwnerRefs() (userID, firebaseUID string)
}

// ResourceLoader fetches a resource by its route id.
type ResourceLoader func(ctx context.Context, id string) (Owned, error)

// RequireActiveAccount rejects soft-disabled accounts.
func RequireActiveAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			utils.Unauthorized(c, utils.CodeAuthFailed, "Authentication required")
			return
		}
		if !user.IsActive {
			utils.Forbidden(c, utils.CodeAccountInactive, "Account has been deactivated")
			return
		}
		c.Next()
	}
}

// RequireVerifiedEmail rejects identities whose provider has not confirmed
// the email address.
func RequireVerifiedEmail() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			utils.Unauthorized(c, utils.CodeAuthFailed, "Authentication required")
			return
		}
		if !claims.EmailVerified {
			utils.Forbidden(c, utils.CodeEmailNotVerified, "Email address is not verified")
			return
		}
		c.Next()
	}
}

// RequireRole limits a route to the given roles.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	allowed := make(map[model.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			utils.Unauthorized(c, utils.CodeAuthFailed, "Authentication required")
			return
		}
		if _, ok := allowed[user.Role]; !ok {
			utils.FailWith(c, http.StatusForbidden, utils.CodeInsufficientRole,
				"Insufficient permissions", gin.H{
					"required": roles,
					"current":  user.Role,
				})
			return
		}
		c.Next()
	}
}

// RequireOwnership loads the resource named by the route parameter and
// rejects requesters who own it by neither internal id nor subject id. The
// loaded resource is attached to the context for the handler.
func RequireOwnership(loader ResourceLoader, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			utils.Unauthorized(c, utils.CodeAuthFailed, "Authentication required")
			return
		}

		id := c.Param(param)
		if id == "" {
			utils.BadRequest(c, "", "Missing resource id")
			return
		}

		resource, err := loader(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				utils.NotFound(c, "Resource not found")
				return
			}
			log.Printf("resource load failed for %s: %v", id, err)
			utils.InternalError(c, "Failed to load resource")
			return
		}

		ownerID, ownerUID := resource.OwnerRefs()
		if ownerID != user.UserID && ownerUID != user.FirebaseUID {
			utils.Forbidden(c, utils.CodeAccessDenied, "You do not have access to this resource")
			return
		}

		c.Set(CtxResource, resource)
		c.Next()
	}
}

// LoadedResource returns the resource attached by RequireOwnership.
func LoadedResource(c *gin.Context) (Owned, bool) {
	value, exists := c.Get(CtxResource)
	if !exists {
		return nil, false
	}
	resource, ok := value.(Owned)
	return resource, ok
}
