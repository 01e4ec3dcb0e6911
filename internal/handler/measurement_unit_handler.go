package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/packarma/admin-api/internal/models"
	"github.com/packarma/admin-api/internal/service"
	appErrors "github.com/packarma/admin-api/pkg/errors"
	"github.com/packarma/admin-api/pkg/response"
)

// MeasurementUnitHandler exposes measurement unit CRUD endpoints.
type MeasurementUnitHandler struct {
	service *service.MeasurementUnitService
}

// NewMeasurementUnitHandler constructs a measurement unit handler.
func NewMeasurementUnitHandler(svc *service.MeasurementUnitService) *MeasurementUnitHandler {
	return &MeasurementUnitHandler{service: svc}
}

// List godoc
// @Summary List measurement units
// @Tags MeasurementUnits
// @Produce json
// @Param search query string false "Search keyword"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /measurement-units [get]
func (h *MeasurementUnitHandler) List(c *gin.Context) {
	filter := models.MeasurementUnitFilter{ListFilter: parseListFilter(c)}

	units, info, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, units, &info)
}

// Get godoc
// @Summary Get measurement unit detail
// @Tags MeasurementUnits
// @Produce json
// @Param id path string true "Unit ID"
// @Success 200 {object} response.Envelope
// @Router /measurement-units/{id} [get]
func (h *MeasurementUnitHandler) Get(c *gin.Context) {
	unit, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, unit, nil)
}

// Create godoc
// @Summary Create measurement unit
// @Tags MeasurementUnits
// @Accept json
// @Produce json
// @Param payload body service.MeasurementUnitRequest true "Unit payload"
// @Success 201 {object} response.Envelope
// @Router /measurement-units [post]
func (h *MeasurementUnitHandler) Create(c *gin.Context) {
	var req service.MeasurementUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	unit, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, unit)
}

// Update godoc
// @Summary Update measurement unit
// @Tags MeasurementUnits
// @Accept json
// @Produce json
// @Param id path string true "Unit ID"
// @Param payload body service.MeasurementUnitRequest true "Unit payload"
// @Success 200 {object} response.Envelope
// @Router /measurement-units/{id} [put]
func (h *MeasurementUnitHandler) Update(c *gin.Context) {
	var req service.MeasurementUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	unit, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, unit, nil)
}

// ToggleStatus godoc
// @Summary Toggle measurement unit status
// @Tags MeasurementUnits
// @Produce json
// @Param id path string true "Unit ID"
// @Success 200 {object} response.Envelope
// @Router /measurement-units/{id}/status [patch]
func (h *MeasurementUnitHandler) ToggleStatus(c *gin.Context) {
	unit, err := h.service.ToggleStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, unit, nil)
}

// Delete godoc
// @Summary Delete measurement unit
// @Tags MeasurementUnits
// @Produce json
// @Param id path string true "Unit ID"
// @Success 204 {object} response.Envelope
// @Router /measurement-units/{id} [delete]
func (h *MeasurementUnitHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
