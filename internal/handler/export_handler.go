package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/packarma/admin-api/internal/service"
	appErrors "github.com/packarma/admin-api/pkg/errors"
	"github.com/packarma/admin-api/pkg/export"
	"github.com/packarma/admin-api/pkg/response"
)

// ExportHandler exposes dataset export, job polling and download endpoints.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// exportRequest mirrors the list filters so an export matches what the list
// screen is showing.
type exportRequest struct {
	Format  string            `json:"format"`
	Search  string            `json:"search"`
	Status  string            `json:"status"`
	From    string            `json:"from"`
	To      string            `json:"to"`
	Filters map[string]string `json:"filters"`
}

func (r exportRequest) query() service.ExportQuery {
	q := service.ExportQuery{
		Search:  r.Search,
		Status:  r.Status,
		Filters: r.Filters,
	}
	if from, err := time.Parse(dateParamLayout, r.From); err == nil {
		q.From = &from
	}
	if to, err := time.Parse(dateParamLayout, r.To); err == nil {
		to = to.Add(24*time.Hour - time.Nanosecond)
		q.To = &to
	}
	return q
}

// Export godoc
// @Summary Export a resource dataset
// @Description Render the filtered dataset inline, or queue a background job
// @Description when the result is large. Large results answer 202 with a job
// @Description id to poll.
// @Tags Exports
// @Accept json
// @Produce octet-stream
// @Param payload body exportRequest false "Format and filters"
// @Success 200 {file} binary
// @Success 202 {object} response.Envelope
// @Router /categories/export [post]
func (h *ExportHandler) Export(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := exportRequest{Format: string(export.FormatXLSX)}
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
			return
		}
		if req.Format == "" {
			req.Format = string(export.FormatXLSX)
		}

		file, job, err := h.service.Export(c.Request.Context(), resource, export.Format(req.Format), req.query())
		if err != nil {
			response.Error(c, err)
			return
		}
		if job != nil {
			response.JSON(c, http.StatusAccepted, job, nil)
			return
		}

		c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
		c.Data(http.StatusOK, file.ContentType, file.Data)
	}
}

// Status godoc
// @Summary Poll a background export job
// @Tags Exports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /exports/jobs/{id} [get]
func (h *ExportHandler) Status(c *gin.Context) {
	status, err := h.service.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Download godoc
// @Summary Download a finished export
// @Description The token is a signed URL segment; no session is required.
// @Tags Exports
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Router /exports/download/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	file, filename, err := h.service.Download(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat export file"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.DataFromReader(http.StatusOK, info.Size(), "application/octet-stream", file, nil)
}
