package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/packarma/admin-api/internal/middleware"
	"github.com/packarma/admin-api/internal/models"
)

// claimsFromContext returns the authenticated admin's token claims, or nil
// on routes that somehow ran without the JWT middleware. Handlers treat nil
// as unauthorized rather than panicking.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	if claims, ok := c.Get(middleware.ContextAdminKey); ok {
		if jwtClaims, ok := claims.(*models.JWTClaims); ok {
			return jwtClaims
		}
	}
	return nil
}
