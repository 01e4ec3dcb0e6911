package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/packarma/admin-api/internal/models"
	"github.com/packarma/admin-api/internal/service"
	appErrors "github.com/packarma/admin-api/pkg/errors"
	"github.com/packarma/admin-api/pkg/response"
)

// AdminHandler exposes staff account and permission management endpoints.
type AdminHandler struct {
	service *service.AdminService
}

// NewAdminHandler constructs an admin handler.
func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{service: svc}
}

// List godoc
// @Summary List staff accounts
// @Tags Staff
// @Produce json
// @Param role query string false "Filter by role"
// @Param search query string false "Search keyword"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admins [get]
func (h *AdminHandler) List(c *gin.Context) {
	filter := models.AdminFilter{ListFilter: parseListFilter(c)}
	if role := models.AdminRole(c.Query("role")); role.Valid() {
		filter.Role = &role
	}

	admins, info, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, admins, &info)
}

// Get godoc
// @Summary Get staff account detail
// @Tags Staff
// @Produce json
// @Param id path string true "Admin ID"
// @Success 200 {object} response.Envelope
// @Router /admins/{id} [get]
func (h *AdminHandler) Get(c *gin.Context) {
	admin, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, admin, nil)
}

// Create godoc
// @Summary Create staff account
// @Tags Staff
// @Accept json
// @Produce json
// @Param payload body service.CreateAdminRequest true "Staff payload"
// @Success 201 {object} response.Envelope
// @Router /admins [post]
func (h *AdminHandler) Create(c *gin.Context) {
	var req service.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	admin, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, admin)
}

// Update godoc
// @Summary Update staff account
// @Tags Staff
// @Accept json
// @Produce json
// @Param id path string true "Admin ID"
// @Param payload body service.UpdateAdminRequest true "Staff payload"
// @Success 200 {object} response.Envelope
// @Router /admins/{id} [put]
func (h *AdminHandler) Update(c *gin.Context) {
	var req service.UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	admin, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, admin, nil)
}

// ToggleStatus godoc
// @Summary Toggle staff account status
// @Tags Staff
// @Produce json
// @Param id path string true "Admin ID"
// @Success 200 {object} response.Envelope
// @Router /admins/{id}/status [patch]
func (h *AdminHandler) ToggleStatus(c *gin.Context) {
	admin, err := h.service.ToggleStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, admin, nil)
}

// Delete godoc
// @Summary Delete staff account
// @Tags Staff
// @Produce json
// @Param id path string true "Admin ID"
// @Success 204 {object} response.Envelope
// @Router /admins/{id} [delete]
func (h *AdminHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claims.AdminID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Permissions godoc
// @Summary Get staff permission grants
// @Tags Staff
// @Produce json
// @Param id path string true "Admin ID"
// @Success 200 {object} response.Envelope
// @Router /admins/{id}/permissions [get]
func (h *AdminHandler) Permissions(c *gin.Context) {
	rows, err := h.service.Permissions(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// ReplacePermissions godoc
// @Summary Replace staff permission grants
// @Tags Staff
// @Accept json
// @Produce json
// @Param id path string true "Admin ID"
// @Param payload body []service.PermissionGrant true "Permission grants"
// @Success 200 {object} response.Envelope
// @Router /admins/{id}/permissions [put]
func (h *AdminHandler) ReplacePermissions(c *gin.Context) {
	var grants []service.PermissionGrant
	if err := c.ShouldBindJSON(&grants); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid permission payload"))
		return
	}
	rows, err := h.service.ReplacePermissions(c.Request.Context(), c.Param("id"), grants)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}
