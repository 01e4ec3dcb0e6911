package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/packarma/admin-api/internal/models"
	"github.com/packarma/admin-api/internal/service"
	"github.com/packarma/admin-api/pkg/response"
)

// AppUserHandler exposes customer account endpoints. Customers register
// through the mobile app; the back office can only inspect and block them.
type AppUserHandler struct {
	service *service.AppUserService
}

// NewAppUserHandler constructs an app user handler.
func NewAppUserHandler(svc *service.AppUserService) *AppUserHandler {
	return &AppUserHandler{service: svc}
}

// List godoc
// @Summary List customer accounts
// @Tags Customers
// @Produce json
// @Param search query string false "Search name, email or phone"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /app-users [get]
func (h *AppUserHandler) List(c *gin.Context) {
	filter := models.AppUserFilter{ListFilter: parseListFilter(c)}

	users, info, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, &info)
}

// Get godoc
// @Summary Get customer account detail
// @Tags Customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} response.Envelope
// @Router /app-users/{id} [get]
func (h *AppUserHandler) Get(c *gin.Context) {
	user, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// ToggleStatus godoc
// @Summary Toggle customer account status
// @Tags Customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} response.Envelope
// @Router /app-users/{id}/status [patch]
func (h *AppUserHandler) ToggleStatus(c *gin.Context) {
	user, err := h.service.ToggleStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}
