package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"notekeeper/model"
	"notekeeper/services"
	"notekeeper/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware and read by gates and handlers.
const (
	CtxClaims   = "claims"
	CtxUser     = "user"
	CtxUserID   = "user_id"
	CtxResource = "resource"
)

// UserDirectory resolves verified identities to local user records.
type UserDirectory interface {
	ResolveFromClaims(ctx context.Context, claims *services.Claims, device string) (*model.User, error)
}

// ClaimsCache memoizes verified claims between requests. Optional; a nil
// cache disables memoization.
type ClaimsCache interface {
	Get(ctx context.Context, token string) (*services.Claims, error)
	Set(ctx context.Context, token string, claims *services.Claims) error
}

// bearerToken pulls the credential out of the Authorization header.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// authenticate runs the shared verification path: token → claims → user.
// Returned errors are already classified for the response.
func authenticate(c *gin.Context, verifier services.TokenVerifier, users UserDirectory, cache ClaimsCache) (int, string, string) {
	token, ok := bearerToken(c)
	if !ok {
		utils.TrackAuthAttempt("failure", "missing_token")
		return http.StatusUnauthorized, utils.CodeAuthFailed, "Authentication required"
	}

	var claims *services.Claims
	if cache != nil {
		cached, err := cache.Get(c.Request.Context(), token)
		if err != nil {
			log.Printf("claims cache read failed: %v", err)
		}
		claims = cached
	}

	if claims == nil {
		verified, err := verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrTokenExpired):
				utils.TrackAuthAttempt("failure", "expired")
				return http.StatusUnauthorized, utils.CodeTokenExpired, "Token has expired"
			case errors.Is(err, services.ErrTokenInvalid):
				utils.TrackAuthAttempt("failure", "invalid")
				return http.StatusUnauthorized, utils.CodeInvalidToken, "Invalid token"
			default:
				log.Printf("token verification failed: %v", err)
				utils.TrackAuthAttempt("failure", "error")
				return http.StatusUnauthorized, utils.CodeAuthFailed, "Authentication failed"
			}
		}
		claims = verified
		if cache != nil {
			if err := cache.Set(c.Request.Context(), token, claims); err != nil {
				log.Printf("claims cache write failed: %v", err)
			}
		}
	}

	device := utils.DeviceSummary(c.Request.UserAgent())
	user, err := users.ResolveFromClaims(c.Request.Context(), claims, device)
	if err != nil {
		log.Printf("user resolution failed for %s: %v", claims.SubjectID, err)
		utils.TrackAuthAttempt("failure", "user_resolution")
		return http.StatusUnauthorized, utils.CodeAuthFailed, "Authentication failed"
	}

	utils.TrackAuthAttempt("success", "token")
	c.Set(CtxClaims, claims)
	c.Set(CtxUser, user)
	c.Set(CtxUserID, user.UserID)
	return 0, "", ""
}

// RequireAuth verifies the bearer token, provisions the local user on first
// sight and attaches both claims and user to the request context. The chain
// stops with a classified 401 on any failure.
func RequireAuth(verifier services.TokenVerifier, users UserDirectory, cache ClaimsCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if status, code, message := authenticate(c, verifier, users, cache); status != 0 {
			utils.Fail(c, status, code, message)
			return
		}
		c.Next()
	}
}

// OptionalAuth runs the same verification path but never rejects: on any
// failure the request continues anonymously.
func OptionalAuth(verifier services.TokenVerifier, users UserDirectory, cache ClaimsCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, verifier, users, cache)
		c.Next()
	}
}

// CurrentUser returns the authenticated user attached by RequireAuth.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get(CtxUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok
}

// CurrentClaims returns the verified claims attached by RequireAuth.
func CurrentClaims(c *gin.Context) (*services.Claims, bool) {
	value, exists := c.Get(CtxClaims)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*services.Claims)
	return claims, ok
}
