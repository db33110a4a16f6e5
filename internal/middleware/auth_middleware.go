package middleware

import (
	"context"
	"net/http"
	"strings"

	"courier-chat/internal/identity"
	"courier-chat/internal/transport/httpdto"
	"courier-chat/pkg/logger"

	"github.com/gin-gonic/gin"
)

const userIDKey = "auth_user_id"

// Auth resolves the caller identity from a bearer token and aborts with 401
// when none can be resolved.
func Auth(verifier identity.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := verifier.Verify(extractBearer(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthenticated", "UNAUTHENTICATED"))
			return
		}

		c.Set(userIDKey, userID)
		ctx := context.WithValue(c.Request.Context(), logger.UserIdKey, userID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// UserID returns the authenticated caller id set by Auth.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func extractBearer(c *gin.Context) string {
	value := c.GetHeader("Authorization")
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
