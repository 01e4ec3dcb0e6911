package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/packarma/admin-api/internal/models"
	"github.com/packarma/admin-api/internal/service"
	"github.com/packarma/admin-api/pkg/response"
)

// ReportHandler exposes the read-only report listings.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler constructs a report handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// ListEnquiries godoc
// @Summary List customer enquiries
// @Tags Reports
// @Produce json
// @Param search query string false "Search keyword"
// @Param status query string false "Filter by status"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /enquiries [get]
func (h *ReportHandler) ListEnquiries(c *gin.Context) {
	filter := models.EnquiryFilter{ListFilter: parseListFilter(c)}

	enquiries, info, err := h.service.ListEnquiries(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enquiries, &info)
}

// GetEnquiry godoc
// @Summary Get enquiry detail
// @Tags Reports
// @Produce json
// @Param id path string true "Enquiry ID"
// @Success 200 {object} response.Envelope
// @Router /enquiries/{id} [get]
func (h *ReportHandler) GetEnquiry(c *gin.Context) {
	enquiry, err := h.service.GetEnquiry(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enquiry, nil)
}

// ListReferrals godoc
// @Summary List referral report rows
// @Tags Reports
// @Produce json
// @Param code query string false "Filter by referral code"
// @Param search query string false "Search keyword"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /referrals [get]
func (h *ReportHandler) ListReferrals(c *gin.Context) {
	filter := models.ReferralFilter{
		ListFilter: parseListFilter(c),
		Code:       c.Query("code"),
	}

	referrals, info, err := h.service.ListReferrals(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, referrals, &info)
}
