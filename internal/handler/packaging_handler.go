package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/packarma/admin-api/internal/models"
	"github.com/packarma/admin-api/internal/service"
	appErrors "github.com/packarma/admin-api/pkg/errors"
	"github.com/packarma/admin-api/pkg/response"
)

// PackagingHandler exposes the three packaging taxonomies (materials,
// treatments, types) through kind-bound handler funcs. The router mounts one
// route group per kind.
type PackagingHandler struct {
	service *service.PackagingService
}

// NewPackagingHandler constructs a packaging handler.
func NewPackagingHandler(svc *service.PackagingService) *PackagingHandler {
	return &PackagingHandler{service: svc}
}

// List godoc
// @Summary List packaging taxonomy entries
// @Tags Packaging
// @Produce json
// @Param search query string false "Search keyword"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /packaging-materials [get]
func (h *PackagingHandler) List(kind models.PackagingKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.PackagingFilter{ListFilter: parseListFilter(c)}

		items, info, err := h.service.List(c.Request.Context(), kind, filter)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, items, &info)
	}
}

// Get godoc
// @Summary Get packaging taxonomy entry
// @Tags Packaging
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} response.Envelope
// @Router /packaging-materials/{id} [get]
func (h *PackagingHandler) Get(kind models.PackagingKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, err := h.service.Get(c.Request.Context(), kind, c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, item, nil)
	}
}

// Create godoc
// @Summary Create packaging taxonomy entry
// @Tags Packaging
// @Accept json
// @Produce json
// @Param payload body service.PackagingRequest true "Entry payload"
// @Success 201 {object} response.Envelope
// @Router /packaging-materials [post]
func (h *PackagingHandler) Create(kind models.PackagingKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.PackagingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
		item, err := h.service.Create(c.Request.Context(), kind, req)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, item)
	}
}

// Update godoc
// @Summary Update packaging taxonomy entry
// @Tags Packaging
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param payload body service.PackagingRequest true "Entry payload"
// @Success 200 {object} response.Envelope
// @Router /packaging-materials/{id} [put]
func (h *PackagingHandler) Update(kind models.PackagingKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.PackagingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
		item, err := h.service.Update(c.Request.Context(), kind, c.Param("id"), req)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, item, nil)
	}
}

// ToggleStatus godoc
// @Summary Toggle packaging taxonomy entry status
// @Tags Packaging
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} response.Envelope
// @Router /packaging-materials/{id}/status [patch]
func (h *PackagingHandler) ToggleStatus(kind models.PackagingKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, err := h.service.ToggleStatus(c.Request.Context(), kind, c.Param("id"))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, item, nil)
	}
}

// Delete godoc
// @Summary Delete packaging taxonomy entry
// @Tags Packaging
// @Produce json
// @Param id path string true "Entry ID"
// @Success 204 {object} response.Envelope
// @Router /packaging-materials/{id} [delete]
func (h *PackagingHandler) Delete(kind models.PackagingKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.service.Delete(c.Request.Context(), kind, c.Param("id")); err != nil {
			response.Error(c, err)
			return
		}
		response.NoContent(c)
	}
}
