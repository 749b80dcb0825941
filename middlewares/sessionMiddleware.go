package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/willtech-site/polaris_backend/config"
	"github.com/willtech-site/polaris_backend/utils"
)

// SessionMiddleware resolves the bearer token into a username for downstream
// handlers. Requests without a token pass through; protected handlers reject
// them when no username is in context.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}
		username, exists, err := config.GetRedisValue("Token:" + token)
		if err != nil || !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		ctx := context.WithValue(c.Request.Context(), utils.ContextKeyToken, token)
		ctx = context.WithValue(ctx, utils.ContextKeyUsername, username)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// bearerToken accepts both the bare `token` header and the
// `Authorization: Token <key>` / `Authorization: Bearer <key>` forms.
func bearerToken(c *gin.Context) string {
	if t := c.Request.Header.Get("token"); t != "" {
		return t
	}
	auth := c.Request.Header.Get("Authorization")
	for _, prefix := range []string{"Token ", "Bearer "} {
		if strings.HasPrefix(auth, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(auth, prefix))
		}
	}
	return ""
}
