// Package response renders the envelope every endpoint answers with. A
// response carries either data or an error, never both, plus pagination
// metadata on list endpoints.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/packarma/admin-api/pkg/errors"
	"github.com/packarma/admin-api/pkg/middleware/requestid"
	"github.com/packarma/admin-api/pkg/pagination"
)

// Envelope is the wire shape of every JSON response.
type Envelope struct {
	Data       interface{}            `json:"data,omitempty"`
	Error      *appErrors.Error       `json:"error,omitempty"`
	Pagination *pagination.Info       `json:"pagination,omitempty"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
}

// JSON sends a success envelope. info is non-nil only on list endpoints.
func JSON(c *gin.Context, status int, data interface{}, info *pagination.Info, meta ...map[string]interface{}) {
	env := Envelope{Data: data, Pagination: info}
	if len(meta) > 0 && meta[0] != nil {
		env.Meta = meta[0]
	}
	write(c, status, env)
}

// Created responds with HTTP 201 and the stored record.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data, nil)
}

// Error normalises err and sends it with its mapped status. The request ID
// rides along in meta so a client-reported failure can be matched to its
// log lines and audit row.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	env := Envelope{Error: appErr}
	if reqID := requestid.Value(c); reqID != "" {
		env.Meta = map[string]interface{}{"request_id": reqID}
	}
	write(c, appErr.Status, env)
}

// NoContent sends an empty 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Admin responses are operator-specific and must never be served from a
// shared cache.
func write(c *gin.Context, status int, env Envelope) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, env)
}
