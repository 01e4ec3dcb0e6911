package middleware

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/packarma/admin-api/internal/models"
	"github.com/packarma/admin-api/internal/repository"
	"github.com/packarma/admin-api/pkg/middleware/requestid"
)

// Audit records an audit trail entry after each successful mutating request.
// Failed requests leave no trail; they changed nothing.
func Audit(repo *repository.AdminRepository, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now().UTC()
		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}

		var adminID *string
		if claims, ok := c.Get(ContextAdminKey); ok {
			if parsed, ok := claims.(*models.JWTClaims); ok {
				adminID = &parsed.AdminID
			}
		}

		var resourceID *string
		if id := c.Param("id"); id != "" {
			resourceID = &id
		}

		body, _ := json.Marshal(map[string]interface{}{
			"path":       c.FullPath(),
			"method":     c.Request.Method,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"request_id": requestid.Value(c),
		})

		_ = repo.InsertAuditLog(c.Request.Context(), &models.AuditLog{
			AdminID:    adminID,
			Action:     action,
			Resource:   resource,
			ResourceID: resourceID,
			NewValues:  body,
			IPAddress:  c.ClientIP(),
			UserAgent:  c.GetHeader("User-Agent"),
		})
	}
}
