package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/packarma/admin-api/internal/models"
	"github.com/packarma/admin-api/internal/service"
	appErrors "github.com/packarma/admin-api/pkg/errors"
	"github.com/packarma/admin-api/pkg/response"
)

// reorderPayload is the body of sequence reorder endpoints.
type reorderPayload struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

// BannerHandler exposes banner CRUD and reorder endpoints.
type BannerHandler struct {
	service *service.BannerService
}

// NewBannerHandler constructs a banner handler.
func NewBannerHandler(svc *service.BannerService) *BannerHandler {
	return &BannerHandler{service: svc}
}

// List godoc
// @Summary List banners
// @Tags Banners
// @Produce json
// @Param search query string false "Search keyword"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /banners [get]
func (h *BannerHandler) List(c *gin.Context) {
	filter := models.BannerFilter{ListFilter: parseListFilter(c)}

	banners, info, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, banners, &info)
}

// Get godoc
// @Summary Get banner detail
// @Tags Banners
// @Produce json
// @Param id path string true "Banner ID"
// @Success 200 {object} response.Envelope
// @Router /banners/{id} [get]
func (h *BannerHandler) Get(c *gin.Context) {
	banner, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, banner, nil)
}

// Create godoc
// @Summary Create banner
// @Tags Banners
// @Accept json
// @Produce json
// @Param payload body service.BannerRequest true "Banner payload"
// @Success 201 {object} response.Envelope
// @Router /banners [post]
func (h *BannerHandler) Create(c *gin.Context) {
	var req service.BannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	banner, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, banner)
}

// Update godoc
// @Summary Update banner
// @Tags Banners
// @Accept json
// @Produce json
// @Param id path string true "Banner ID"
// @Param payload body service.BannerRequest true "Banner payload"
// @Success 200 {object} response.Envelope
// @Router /banners/{id} [put]
func (h *BannerHandler) Update(c *gin.Context) {
	var req service.BannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	banner, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, banner, nil)
}

// ToggleStatus godoc
// @Summary Toggle banner status
// @Tags Banners
// @Produce json
// @Param id path string true "Banner ID"
// @Success 200 {object} response.Envelope
// @Router /banners/{id}/status [patch]
func (h *BannerHandler) ToggleStatus(c *gin.Context) {
	banner, err := h.service.ToggleStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, banner, nil)
}

// Reorder godoc
// @Summary Move banner one position up or down
// @Tags Banners
// @Accept json
// @Produce json
// @Param id path string true "Banner ID"
// @Param payload body reorderPayload true "Direction"
// @Success 200 {object} response.Envelope
// @Router /banners/{id}/reorder [patch]
func (h *BannerHandler) Reorder(c *gin.Context) {
	var payload reorderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "direction must be up or down"))
		return
	}
	result, err := h.service.Reorder(c.Request.Context(), c.Param("id"), payload.Direction == "up")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Delete godoc
// @Summary Delete banner
// @Tags Banners
// @Produce json
// @Param id path string true "Banner ID"
// @Success 204 {object} response.Envelope
// @Router /banners/{id} [delete]
func (h *BannerHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
