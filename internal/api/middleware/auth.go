package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/emberdao/soulforge/internal/api/shared/errors"
	"github.com/emberdao/soulforge/internal/auth"
	"github.com/emberdao/soulforge/internal/logger"
	"github.com/emberdao/soulforge/internal/store"
	"github.com/emberdao/soulforge/internal/store/schema"
)

const (
	// CurrentUserKey is the gin context key holding the authenticated user
	CurrentUserKey = "current_user"
	// JWTClaimsKey is the gin context key holding the verified token claims
	JWTClaimsKey = "jwt_claims"
)

// Auth returns a gin middleware that verifies the Bearer token and resolves
// the authenticated user from the database. A token whose user no longer
// exists is rejected, so deleting a user revokes their sessions.
func Auth(tokens *auth.Service, st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authenticate(c.GetHeader("Authorization"), tokens)
		if err != nil {
			logger.Warn("Authentication failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			abortWithError(c, http.StatusUnauthorized,
				apierrors.NewUnauthorizedError("Authentication failed", err.Error()))
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			abortWithError(c, http.StatusUnauthorized,
				apierrors.NewUnauthorizedError("Authentication failed", err.Error()))
			return
		}

		user, err := st.GetUser(c.Request.Context(), userID)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError,
				apierrors.NewDatabaseError("Failed to resolve user"))
			return
		}
		if user == nil {
			abortWithError(c, http.StatusUnauthorized,
				apierrors.NewUnauthorizedError("Authentication failed", "unknown user"))
			return
		}

		// A token minted while the user was admin is void once they are
		// demoted
		if claims.Admin && !user.IsAdmin {
			abortWithError(c, http.StatusForbidden,
				apierrors.NewForbiddenError("Admin access required"))
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// RequireAdmin returns a gin middleware that rejects non-admin users. Must
// run after Auth; the admin check is against the user row, not the token
// claim, so demoting an admin takes effect immediately.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin {
			abortWithError(c, http.StatusForbidden,
				apierrors.NewForbiddenError("Admin access required"))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by Auth, or nil
func CurrentUser(c *gin.Context) *schema.User {
	value, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil
	}
	user, ok := value.(*schema.User)
	if !ok {
		return nil
	}
	return user
}

// authenticate parses the Authorization header and verifies the token
func authenticate(authHeader string, tokens *auth.Service) (*auth.Claims, error) {
	if authHeader == "" {
		return nil, errMissingAuthHeader
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, errInvalidAuthHeader
	}

	return tokens.VerifyToken(parts[1])
}

func abortWithError(c *gin.Context, status int, apiErr *apierrors.APIError) {
	c.AbortWithStatusJSON(status, gin.H{"error": apiErr})
}
