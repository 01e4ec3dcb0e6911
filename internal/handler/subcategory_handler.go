package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/packarma/admin-api/internal/models"
	"github.com/packarma/admin-api/internal/service"
	appErrors "github.com/packarma/admin-api/pkg/errors"
	"github.com/packarma/admin-api/pkg/response"
)

// SubCategoryHandler exposes sub-category CRUD endpoints.
type SubCategoryHandler struct {
	service *service.SubCategoryService
}

// NewSubCategoryHandler constructs a sub-category handler.
func NewSubCategoryHandler(svc *service.SubCategoryService) *SubCategoryHandler {
	return &SubCategoryHandler{service: svc}
}

// List godoc
// @Summary List sub-categories
// @Tags SubCategories
// @Produce json
// @Param category_id query string false "Filter by parent category"
// @Param search query string false "Search keyword"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /sub-categories [get]
func (h *SubCategoryHandler) List(c *gin.Context) {
	filter := models.SubCategoryFilter{
		ListFilter: parseListFilter(c),
		CategoryID: c.Query("category_id"),
	}

	items, info, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, &info)
}

// Get godoc
// @Summary Get sub-category detail
// @Tags SubCategories
// @Produce json
// @Param id path string true "Sub-category ID"
// @Success 200 {object} response.Envelope
// @Router /sub-categories/{id} [get]
func (h *SubCategoryHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create sub-category
// @Tags SubCategories
// @Accept json
// @Produce json
// @Param payload body service.SubCategoryRequest true "Sub-category payload"
// @Success 201 {object} response.Envelope
// @Router /sub-categories [post]
func (h *SubCategoryHandler) Create(c *gin.Context) {
	var req service.SubCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update sub-category
// @Tags SubCategories
// @Accept json
// @Produce json
// @Param id path string true "Sub-category ID"
// @Param payload body service.SubCategoryRequest true "Sub-category payload"
// @Success 200 {object} response.Envelope
// @Router /sub-categories/{id} [put]
func (h *SubCategoryHandler) Update(c *gin.Context) {
	var req service.SubCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	item, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// ToggleStatus godoc
// @Summary Toggle sub-category status
// @Tags SubCategories
// @Produce json
// @Param id path string true "Sub-category ID"
// @Success 200 {object} response.Envelope
// @Router /sub-categories/{id}/status [patch]
func (h *SubCategoryHandler) ToggleStatus(c *gin.Context) {
	item, err := h.service.ToggleStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete sub-category
// @Tags SubCategories
// @Produce json
// @Param id path string true "Sub-category ID"
// @Success 204 {object} response.Envelope
// @Router /sub-categories/{id} [delete]
func (h *SubCategoryHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
