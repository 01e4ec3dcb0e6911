package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/packarma/admin-api/internal/models"
	appErrors "github.com/packarma/admin-api/pkg/errors"
	"github.com/packarma/admin-api/pkg/pagination"
)

type enquiryRepository interface {
	List(ctx context.Context, filter models.EnquiryFilter) ([]models.Enquiry, int, error)
	FindByID(ctx context.Context, id string) (*models.Enquiry, error)
}

type referralRepository interface {
	List(ctx context.Context, filter models.ReferralFilter) ([]models.Referral, int, error)
}

// ReportService serves the read-only report screens: customer enquiries and
// referrals.
type ReportService struct {
	enquiries enquiryRepository
	referrals referralRepository
	logger    *zap.Logger
}

// NewReportService constructs the service.
func NewReportService(enquiries enquiryRepository, referrals referralRepository, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{enquiries: enquiries, referrals: referrals, logger: logger}
}

// ListEnquiries returns enquiries with pagination metadata.
func (s *ReportService) ListEnquiries(ctx context.Context, filter models.EnquiryFilter) ([]models.Enquiry, pagination.Info, error) {
	rows, total, err := s.enquiries.List(ctx, filter)
	if err != nil {
		return nil, pagination.Info{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enquiries")
	}
	return rows, pagination.NewInfo(filter.Page, filter.Limit, total), nil
}

// GetEnquiry returns one enquiry.
func (s *ReportService) GetEnquiry(ctx context.Context, id string) (*models.Enquiry, error) {
	enquiry, err := s.enquiries.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enquiry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get enquiry")
	}
	return enquiry, nil
}

// ListReferrals returns referrals with pagination metadata.
func (s *ReportService) ListReferrals(ctx context.Context, filter models.ReferralFilter) ([]models.Referral, pagination.Info, error) {
	rows, total, err := s.referrals.List(ctx, filter)
	if err != nil {
		return nil, pagination.Info{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list referrals")
	}
	return rows, pagination.NewInfo(filter.Page, filter.Limit, total), nil
}
