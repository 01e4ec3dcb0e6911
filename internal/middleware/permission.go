package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/packarma/admin-api/internal/models"
	"github.com/packarma/admin-api/internal/permission"
	"github.com/packarma/admin-api/internal/service"
	appErrors "github.com/packarma/admin-api/pkg/errors"
	"github.com/packarma/admin-api/pkg/response"
)

// Require gates a route on one capability within a section. Resolution is
// fail-closed: a missing session, an unresolvable permission set, or an
// absent grant all deny the request.
func Require(authService *service.AuthService, section string, capability permission.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextAdminKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims, ok := claimsValue.(*models.JWTClaims)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		set, err := authService.PermissionsFor(c.Request.Context(), claims.AdminID)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "permissions could not be resolved"))
			c.Abort()
			return
		}
		if !set.Can(section, capability) {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
