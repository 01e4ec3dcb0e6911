package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/packarma/admin-api/internal/models"
	"github.com/packarma/admin-api/internal/service"
	appErrors "github.com/packarma/admin-api/pkg/errors"
	"github.com/packarma/admin-api/pkg/response"
)

// AdvertisementHandler exposes advertisement CRUD and reorder endpoints.
type AdvertisementHandler struct {
	service *service.AdvertisementService
}

// NewAdvertisementHandler constructs an advertisement handler.
func NewAdvertisementHandler(svc *service.AdvertisementService) *AdvertisementHandler {
	return &AdvertisementHandler{service: svc}
}

// List godoc
// @Summary List advertisements
// @Tags Advertisements
// @Produce json
// @Param search query string false "Search keyword"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /advertisements [get]
func (h *AdvertisementHandler) List(c *gin.Context) {
	filter := models.AdvertisementFilter{ListFilter: parseListFilter(c)}

	ads, info, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ads, &info)
}

// Get godoc
// @Summary Get advertisement detail
// @Tags Advertisements
// @Produce json
// @Param id path string true "Advertisement ID"
// @Success 200 {object} response.Envelope
// @Router /advertisements/{id} [get]
func (h *AdvertisementHandler) Get(c *gin.Context) {
	ad, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ad, nil)
}

// Create godoc
// @Summary Create advertisement
// @Tags Advertisements
// @Accept json
// @Produce json
// @Param payload body service.AdvertisementRequest true "Advertisement payload"
// @Success 201 {object} response.Envelope
// @Router /advertisements [post]
func (h *AdvertisementHandler) Create(c *gin.Context) {
	var req service.AdvertisementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	ad, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ad)
}

// Update godoc
// @Summary Update advertisement
// @Tags Advertisements
// @Accept json
// @Produce json
// @Param id path string true "Advertisement ID"
// @Param payload body service.AdvertisementRequest true "Advertisement payload"
// @Success 200 {object} response.Envelope
// @Router /advertisements/{id} [put]
func (h *AdvertisementHandler) Update(c *gin.Context) {
	var req service.AdvertisementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	ad, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ad, nil)
}

// ToggleStatus godoc
// @Summary Toggle advertisement status
// @Tags Advertisements
// @Produce json
// @Param id path string true "Advertisement ID"
// @Success 200 {object} response.Envelope
// @Router /advertisements/{id}/status [patch]
func (h *AdvertisementHandler) ToggleStatus(c *gin.Context) {
	ad, err := h.service.ToggleStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ad, nil)
}

// Reorder godoc
// @Summary Move advertisement one position up or down
// @Tags Advertisements
// @Accept json
// @Produce json
// @Param id path string true "Advertisement ID"
// @Param payload body reorderPayload true "Direction"
// @Success 200 {object} response.Envelope
// @Router /advertisements/{id}/reorder [patch]
func (h *AdvertisementHandler) Reorder(c *gin.Context) {
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
// @Summary Delete advertisement
// @Tags Advertisements
// @Produce json
// @Param id path string true "Advertisement ID"
// @Success 204 {object} response.Envelope
// @Router /advertisements/{id} [delete]
func (h *AdvertisementHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
