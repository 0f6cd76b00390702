package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/equipment-rental/internal/auth"
	"github.com/BruksfildServices01/equipment-rental/internal/httperr"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
	ContextUsername = "username"
	ContextIdentity = "identity"
	ContextToken    = "token"
)

func AuthMiddleware(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "authorization header must be Bearer <token>")
			return
		}

		tokenString := strings.TrimSpace(parts[1])

		id, err := issuer.Verify(c.Request.Context(), tokenString)
		if err != nil {
			httperr.Respond(c, err)
			return
		}

		c.Set(ContextUserID, id.UserID)
		c.Set(ContextUserRole, id.Role)
		c.Set(ContextUsername, id.Username)
		c.Set(ContextIdentity, id)
		c.Set(ContextToken, tokenString)

		c.Next()
	}
}

// RequireRoles must run after AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := CurrentIdentity(c)
		if id == nil {
			httperr.Unauthorized(c, "unauthenticated", "authentication required")
			return
		}
		if !id.HasRole(roles...) {
			httperr.Forbidden(c, "forbidden", "role not allowed for this operation")
			return
		}
		c.Next()
	}
}

func CurrentIdentity(c *gin.Context) *auth.Identity {
	v, ok := c.Get(ContextIdentity)
	if !ok {
		return nil
	}
	id, _ := v.(*auth.Identity)
	return id
}

func CurrentToken(c *gin.Context) string {
	return c.GetString(ContextToken)
}
