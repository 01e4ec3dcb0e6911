package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/packarma/admin-api/internal/service"
	appErrors "github.com/packarma/admin-api/pkg/errors"
	"github.com/packarma/admin-api/pkg/response"
)

// ContextAdminKey is the gin context key storing the authenticated admin's
// JWT claims.
const ContextAdminKey = "currentAdmin"

// JWT requires a valid bearer access token and stores its claims on the
// context. The response never says whether the token was absent, malformed
// or expired; that detail only helps an attacker probing the endpoint.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			abortUnauthorized(c)
			return
		}

		claims, err := authService.ParseAccessToken(token)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(ContextAdminKey, claims)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func abortUnauthorized(c *gin.Context) {
	response.Error(c, appErrors.ErrUnauthorized)
	c.Abort()
}
