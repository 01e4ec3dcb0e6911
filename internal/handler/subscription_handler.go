package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/packarma/admin-api/internal/models"
	"github.com/packarma/admin-api/internal/service"
	appErrors "github.com/packarma/admin-api/pkg/errors"
	"github.com/packarma/admin-api/pkg/response"
)

// SubscriptionHandler exposes subscription plan, credit price and customer
// subscription endpoints.
type SubscriptionHandler struct {
	service *service.SubscriptionService
}

// NewSubscriptionHandler constructs a subscription handler.
func NewSubscriptionHandler(svc *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: svc}
}

// ListPlans godoc
// @Summary List subscription plans
// @Tags Subscriptions
// @Produce json
// @Param search query string false "Search keyword"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /subscriptions [get]
func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	filter := models.SubscriptionPlanFilter{ListFilter: parseListFilter(c)}

	plans, info, err := h.service.ListPlans(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plans, &info)
}

// GetPlan godoc
// @Summary Get subscription plan detail
// @Tags Subscriptions
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Router /subscriptions/{id} [get]
func (h *SubscriptionHandler) GetPlan(c *gin.Context) {
	plan, err := h.service.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// CreatePlan godoc
// @Summary Create subscription plan
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param payload body service.SubscriptionPlanRequest true "Plan payload"
// @Success 201 {object} response.Envelope
// @Router /subscriptions [post]
func (h *SubscriptionHandler) CreatePlan(c *gin.Context) {
	var req service.SubscriptionPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	plan, err := h.service.CreatePlan(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, plan)
}

// UpdatePlan godoc
// @Summary Update subscription plan
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param payload body service.SubscriptionPlanRequest true "Plan payload"
// @Success 200 {object} response.Envelope
// @Router /subscriptions/{id} [put]
func (h *SubscriptionHandler) UpdatePlan(c *gin.Context) {
	var req service.SubscriptionPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	plan, err := h.service.UpdatePlan(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// TogglePlanStatus godoc
// @Summary Toggle subscription plan status
// @Tags Subscriptions
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Router /subscriptions/{id}/status [patch]
func (h *SubscriptionHandler) TogglePlanStatus(c *gin.Context) {
	plan, err := h.service.TogglePlanStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// ReorderPlan godoc
// @Summary Move subscription plan one position up or down
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param payload body reorderPayload true "Direction"
// @Success 200 {object} response.Envelope
// @Router /subscriptions/{id}/reorder [patch]
func (h *SubscriptionHandler) ReorderPlan(c *gin.Context) {
	var payload reorderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "direction must be up or down"))
		return
	}
	result, err := h.service.ReorderPlan(c.Request.Context(), c.Param("id"), payload.Direction == "up")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// DeletePlan godoc
// @Summary Delete subscription plan
// @Tags Subscriptions
// @Produce json
// @Param id path string true "Plan ID"
// @Success 204 {object} response.Envelope
// @Router /subscriptions/{id} [delete]
func (h *SubscriptionHandler) DeletePlan(c *gin.Context) {
	if err := h.service.DeletePlan(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListCreditPrices godoc
// @Summary List credit prices
// @Tags CreditPrices
// @Produce json
// @Param search query string false "Search keyword"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /credit-prices [get]
func (h *SubscriptionHandler) ListCreditPrices(c *gin.Context) {
	filter := models.CreditPriceFilter{ListFilter: parseListFilter(c)}

	prices, info, err := h.service.ListCreditPrices(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prices, &info)
}

// GetCreditPrice godoc
// @Summary Get credit price detail
// @Tags CreditPrices
// @Produce json
// @Param id path string true "Credit price ID"
// @Success 200 {object} response.Envelope
// @Router /credit-prices/{id} [get]
func (h *SubscriptionHandler) GetCreditPrice(c *gin.Context) {
	price, err := h.service.GetCreditPrice(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, price, nil)
}

// CreateCreditPrice godoc
// @Summary Create credit price
// @Tags CreditPrices
// @Accept json
// @Produce json
// @Param payload body service.CreditPriceRequest true "Credit price payload"
// @Success 201 {object} response.Envelope
// @Router /credit-prices [post]
func (h *SubscriptionHandler) CreateCreditPrice(c *gin.Context) {
	var req service.CreditPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	price, err := h.service.CreateCreditPrice(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, price)
}

// UpdateCreditPrice godoc
// @Summary Update credit price
// @Tags CreditPrices
// @Accept json
// @Produce json
// @Param id path string true "Credit price ID"
// @Param payload body service.CreditPriceRequest true "Credit price payload"
// @Success 200 {object} response.Envelope
// @Router /credit-prices/{id} [put]
func (h *SubscriptionHandler) UpdateCreditPrice(c *gin.Context) {
	var req service.CreditPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	price, err := h.service.UpdateCreditPrice(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, price, nil)
}

// ToggleCreditPriceStatus godoc
// @Summary Toggle credit price status
// @Tags CreditPrices
// @Produce json
// @Param id path string true "Credit price ID"
// @Success 200 {object} response.Envelope
// @Router /credit-prices/{id}/status [patch]
func (h *SubscriptionHandler) ToggleCreditPriceStatus(c *gin.Context) {
	price, err := h.service.ToggleCreditPriceStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, price, nil)
}

// DeleteCreditPrice godoc
// @Summary Delete credit price
// @Tags CreditPrices
// @Produce json
// @Param id path string true "Credit price ID"
// @Success 204 {object} response.Envelope
// @Router /credit-prices/{id} [delete]
func (h *SubscriptionHandler) DeleteCreditPrice(c *gin.Context) {
	if err := h.service.DeleteCreditPrice(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListUserSubscriptions godoc
// @Summary List customer subscriptions
// @Tags Subscriptions
// @Produce json
// @Param user_id query string false "Filter by customer"
// @Param plan_id query string false "Filter by plan"
// @Param search query string false "Search keyword"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /user-subscriptions [get]
func (h *SubscriptionHandler) ListUserSubscriptions(c *gin.Context) {
	filter := models.UserSubscriptionFilter{
		ListFilter: parseListFilter(c),
		UserID:     c.Query("user_id"),
		PlanID:     c.Query("plan_id"),
	}

	subs, info, err := h.service.ListUserSubscriptions(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subs, &info)
}
