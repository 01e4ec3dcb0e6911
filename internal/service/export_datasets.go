package service

import (
	"context"
	"strconv"

	"github.com/packarma/admin-api/internal/models"
	"github.com/packarma/admin-api/pkg/export"
	"github.com/packarma/admin-api/pkg/pagination"
)

// exportPageSize is the batch size used when paging a full result set out of
// the database for rendering.
const exportPageSize = 50

func exportListFilter(q ExportQuery, page int) models.ListFilter {
	return models.ListFilter{
		Search: q.Search,
		Status: models.Status(q.Status),
		From:   q.From,
		To:     q.To,
		Page:   page,
		Limit:  exportPageSize,
	}
}

// collectPages drives a paged list function until every matching row has
// been visited.
func collectPages(ctx context.Context, q ExportQuery, fetch func(ctx context.Context, filter models.ListFilter) (int, pagination.Info, error)) error {
	for page := 1; ; page++ {
		fetched, info, err := fetch(ctx, exportListFilter(q, page))
		if err != nil {
			return err
		}
		if fetched == 0 || page >= info.TotalPages {
			return nil
		}
	}
}

// RegisterExportSources binds every exportable screen to the export service.
// The section gating of each source is enforced at the route, not here.
func RegisterExportSources(
	exports *ExportService,
	categories *CategoryService,
	subCategories *SubCategoryService,
	banners *BannerService,
	advertisements *AdvertisementService,
	subscriptions *SubscriptionService,
	packaging *PackagingService,
	units *MeasurementUnitService,
	appUsers *AppUserService,
	reports *ReportService,
) {
	exports.Register("category", categoryDatasetSource(categories))
	exports.Register("sub_category", subCategoryDatasetSource(subCategories))
	exports.Register("banner", bannerDatasetSource(banners))
	exports.Register("advertisement", advertisementDatasetSource(advertisements))
	exports.Register("subscription_plan", subscriptionPlanDatasetSource(subscriptions))
	exports.Register("credit_price", creditPriceDatasetSource(subscriptions))
	exports.Register("user_subscription", userSubscriptionDatasetSource(subscriptions))
	for _, kind := range []models.PackagingKind{models.PackagingMaterial, models.PackagingTreatment, models.PackagingType} {
		exports.Register(kind.Resource(), packagingDatasetSource(packaging, kind))
	}
	exports.Register("measurement_unit", measurementUnitDatasetSource(units))
	exports.Register("app_user", appUserDatasetSource(appUsers))
	exports.Register("enquiry", enquiryDatasetSource(reports))
	exports.Register("referral", referralDatasetSource(reports))
}

func categoryDatasetSource(svc *CategoryService) DatasetSource {
	return DatasetSource{
		Title: "Categories",
		Count: func(ctx context.Context, q ExportQuery) (int, error) {
			_, info, err := svc.List(ctx, models.CategoryFilter{ListFilter: exportListFilter(q, 1)})
			return info.TotalItems, err
		},
		Build: func(ctx context.Context, q ExportQuery) (export.Dataset, error) {
			dataset := export.Dataset{Headers: []string{"Name", "Status", "Created At"}}
			err := collectPages(ctx, q, func(ctx context.Context, filter models.ListFilter) (int, pagination.Info, error) {
				rows, info, err := svc.List(ctx, models.CategoryFilter{ListFilter: filter})
				for _, row := range rows {
					dataset.Rows = append(dataset.Rows, map[string]string{
						"Name":       row.Name,
						"Status":     string(row.Status),
						"Created At": row.CreatedAt.Format("02-01-2006"),
					})
				}
				return len(rows), info, err
			})
			return dataset, err
		},
	}
}

func subCategoryDatasetSource(svc *SubCategoryService) DatasetSource {
	return DatasetSource{
		Title: "Sub Categories",
		Count: func(ctx context.Context, q ExportQuery) (int, error) {
			filter := models.SubCategoryFilter{ListFilter: exportListFilter(q, 1), CategoryID: q.Filters["category_id"]}
			_, info, err := svc.List(ctx, filter)
			return info.TotalItems, err
		},
		Build: func(ctx context.Context, q ExportQuery) (export.Dataset, error) {
			dataset := export.Dataset{Headers: []string{"Name", "Category", "Status", "Created At"}}
			err := collectPages(ctx, q, func(ctx context.Context, filter models.ListFilter) (int, pagination.Info, error) {
				rows, info, err := svc.List(ctx, models.SubCategoryFilter{ListFilter: filter, CategoryID: q.Filters["category_id"]})
				for _, row := range rows {
					dataset.Rows = append(dataset.Rows, map[string]string{
						"Name":       row.Name,
						"Category":   row.CategoryName,
						"Status":     string(row.Status),
						"Created At": row.CreatedAt.Format("02-01-2006"),
					})
				}
				return len(rows), info, err
			})
			return dataset, err
		},
	}
}

func bannerDatasetSource(svc *BannerService) DatasetSource {
	return DatasetSource{
		Title: "Banners",
		Count: func(ctx context.Context, q ExportQuery) (int, error) {
			_, info, err := svc.List(ctx, models.BannerFilter{ListFilter: exportListFilter(q, 1)})
			return info.TotalItems, err
		},
		Build: func(ctx context.Context, q ExportQuery) (export.Dataset, error) {
			dataset := export.Dataset{Headers: []string{"Title", "Link", "Sequence", "Status", "Created At"}}
			err := collectPages(ctx, q, func(ctx context.Context, filter models.ListFilter) (int, pagination.Info, error) {
				rows, info, err := svc.List(ctx, models.BannerFilter{ListFilter: filter})
				for _, row := range rows {
					dataset.Rows = append(dataset.Rows, map[string]string{
						"Title":      row.Title,
						"Link":       row.LinkURL,
						"Sequence":   strconv.Itoa(row.Sequence),
						"Status":     string(row.Status),
						"Created At": row.CreatedAt.Format("02-01-2006"),
					})
				}
				return len(rows), info, err
			})
			return dataset, err
		},
	}
}

func advertisementDatasetSource(svc *AdvertisementService) DatasetSource {
	return DatasetSource{
		Title: "Advertisements",
		Count: func(ctx context.Context, q ExportQuery) (int, error) {
			_, info, err := svc.List(ctx, models.AdvertisementFilter{ListFilter: exportListFilter(q, 1)})
			return info.TotalItems, err
		},
		Build: func(ctx context.Context, q ExportQuery) (export.Dataset, error) {
			dataset := export.Dataset{Headers: []string{"Title", "Advertiser", "Link", "Sequence", "Status", "Created At"}}
			err := collectPages(ctx, q, func(ctx context.Context, filter models.ListFilter) (int, pagination.Info, error) {
				rows, info, err := svc.List(ctx, models.AdvertisementFilter{ListFilter: filter})
				for _, row := range rows {
					dataset.Rows = append(dataset.Rows, map[string]string{
						"Title":      row.Title,
						"Advertiser": row.Advertiser,
						"Link":       row.LinkURL,
						"Sequence":   strconv.Itoa(row.Sequence),
						"Status":     string(row.Status),
						"Created At": row.CreatedAt.Format("02-01-2006"),
					})
				}
				return len(rows), info, err
			})
			return dataset, err
		},
	}
}

func subscriptionPlanDatasetSource(svc *SubscriptionService) DatasetSource {
	return DatasetSource{
		Title: "Subscription Plans",
		Count: func(ctx context.Context, q ExportQuery) (int, error) {
			_, info, err := svc.ListPlans(ctx, models.SubscriptionPlanFilter{ListFilter: exportListFilter(q, 1)})
			return info.TotalItems, err
		},
		Build: func(ctx context.Context, q ExportQuery) (export.Dataset, error) {
			dataset := export.Dataset{Headers: []string{"Name", "Duration (days)", "Price", "Credits", "Status"}}
			err := collectPages(ctx, q, func(ctx context.Context, filter models.ListFilter) (int, pagination.Info, error) {
				rows, info, err := svc.ListPlans(ctx, models.SubscriptionPlanFilter{ListFilter: filter})
				for _, row := range rows {
					dataset.Rows = append(dataset.Rows, map[string]string{
						"Name":            row.Name,
						"Duration (days)": strconv.Itoa(row.DurationDays),
						"Price":           strconv.FormatFloat(row.Price, 'f', 2, 64),
						"Credits":         strconv.Itoa(row.Credits),
						"Status":          string(row.Status),
					})
				}
				return len(rows), info, err
			})
			return dataset, err
		},
	}
}

func creditPriceDatasetSource(svc *SubscriptionService) DatasetSource {
	return DatasetSource{
		Title: "Credit Prices",
		Count: func(ctx context.Context, q ExportQuery) (int, error) {
			_, info, err := svc.ListCreditPrices(ctx, models.CreditPriceFilter{ListFilter: exportListFilter(q, 1)})
			return info.TotalItems, err
		},
		Build: func(ctx context.Context, q ExportQuery) (export.Dataset, error) {
			dataset := export.Dataset{Headers: []string{"Currency", "Price", "Status"}}
			err := collectPages(ctx, q, func(ctx context.Context, filter models.ListFilter) (int, pagination.Info, error) {
				rows, info, err := svc.ListCreditPrices(ctx, models.CreditPriceFilter{ListFilter: filter})
				for _, row := range rows {
					dataset.Rows = append(dataset.Rows, map[string]string{
						"Currency": row.Currency,
						"Price":    strconv.FormatFloat(row.Price, 'f', 2, 64),
						"Status":   string(row.Status),
					})
				}
				return len(rows), info, err
			})
			return dataset, err
		},
	}
}

func userSubscriptionDatasetSource(svc *SubscriptionService) DatasetSource {
	return DatasetSource{
		Title: "User Subscriptions",
		Count: func(ctx context.Context, q ExportQuery) (int, error) {
			filter := models.UserSubscriptionFilter{ListFilter: exportListFilter(q, 1), UserID: q.Filters["user_id"], PlanID: q.Filters["plan_id"]}
			_, info, err := svc.ListUserSubscriptions(ctx, filter)
			return info.TotalItems, err
		},
		Build: func(ctx context.Context, q ExportQuery) (export.Dataset, error) {
			dataset := export.Dataset{Headers: []string{"Customer", "Plan", "Starts", "Expires", "Amount", "Status"}}
			err := collectPages(ctx, q, func(ctx context.Context, filter models.ListFilter) (int, pagination.Info, error) {
				rows, info, err := svc.ListUserSubscriptions(ctx, models.UserSubscriptionFilter{ListFilter: filter, UserID: q.Filters["user_id"], PlanID: q.Filters["plan_id"]})
				for _, row := range rows {
					dataset.Rows = append(dataset.Rows, map[string]string{
						"Customer": row.UserName,
						"Plan":     row.PlanName,
						"Starts":   row.StartsAt.Format("02-01-2006"),
						"Expires":  row.ExpiresAt.Format("02-01-2006"),
						"Amount":   strconv.FormatFloat(row.Amount, 'f', 2, 64),
						"Status":   string(row.Status),
					})
				}
				return len(rows), info, err
			})
			return dataset, err
		},
	}
}

func packagingDatasetSource(svc *PackagingService, kind models.PackagingKind) DatasetSource {
	return DatasetSource{
		Title: "Packaging " + kind.Resource(),
		Count: func(ctx context.Context, q ExportQuery) (int, error) {
			_, info, err := svc.List(ctx, kind, models.PackagingFilter{ListFilter: exportListFilter(q, 1)})
			return info.TotalItems, err
		},
		Build: func(ctx context.Context, q ExportQuery) (export.Dataset, error) {
			dataset := export.Dataset{Headers: []string{"Name", "Description", "Status", "Created At"}}
			err := collectPages(ctx, q, func(ctx context.Context, filter models.ListFilter) (int, pagination.Info, error) {
				rows, info, err := svc.List(ctx, kind, models.PackagingFilter{ListFilter: filter})
				for _, row := range rows {
					dataset.Rows = append(dataset.Rows, map[string]string{
						"Name":        row.Name,
						"Description": row.Description,
						"Status":      string(row.Status),
						"Created At":  row.CreatedAt.Format("02-01-2006"),
					})
				}
				return len(rows), info, err
			})
			return dataset, err
		},
	}
}

func measurementUnitDatasetSource(svc *MeasurementUnitService) DatasetSource {
	return DatasetSource{
		Title: "Measurement Units",
		Count: func(ctx context.Context, q ExportQuery) (int, error) {
			_, info, err := svc.List(ctx, models.MeasurementUnitFilter{ListFilter: exportListFilter(q, 1)})
			return info.TotalItems, err
		},
		Build: func(ctx context.Context, q ExportQuery) (export.Dataset, error) {
			dataset := export.Dataset{Headers: []string{"Name", "Symbol", "Status"}}
			err := collectPages(ctx, q, func(ctx context.Context, filter models.ListFilter) (int, pagination.Info, error) {
				rows, info, err := svc.List(ctx, models.MeasurementUnitFilter{ListFilter: filter})
				for _, row := range rows {
					dataset.Rows = append(dataset.Rows, map[string]string{
						"Name":   row.Name,
						"Symbol": row.Symbol,
						"Status": string(row.Status),
					})
				}
				return len(rows), info, err
			})
			return dataset, err
		},
	}
}

func appUserDatasetSource(svc *AppUserService) DatasetSource {
	return DatasetSource{
		Title: "App Users",
		Count: func(ctx context.Context, q ExportQuery) (int, error) {
			_, info, err := svc.List(ctx, models.AppUserFilter{ListFilter: exportListFilter(q, 1)})
			return info.TotalItems, err
		},
		Build: func(ctx context.Context, q ExportQuery) (export.Dataset, error) {
			dataset := export.Dataset{Headers: []string{"Name", "Email", "Phone", "Credits", "Referral Code", "Status", "Joined"}}
			err := collectPages(ctx, q, func(ctx context.Context, filter models.ListFilter) (int, pagination.Info, error) {
				rows, info, err := svc.List(ctx, models.AppUserFilter{ListFilter: filter})
				for _, row := range rows {
					dataset.Rows = append(dataset.Rows, map[string]string{
						"Name":          row.Name,
						"Email":         row.Email,
						"Phone":         row.Phone,
						"Credits":       strconv.Itoa(row.Credits),
						"Referral Code": row.ReferralCode,
						"Status":        string(row.Status),
						"Joined":        row.CreatedAt.Format("02-01-2006"),
					})
				}
				return len(rows), info, err
			})
			return dataset, err
		},
	}
}

func enquiryDatasetSource(svc *ReportService) DatasetSource {
	return DatasetSource{
		Title: "Customer Enquiries",
		Count: func(ctx context.Context, q ExportQuery) (int, error) {
			_, info, err := svc.ListEnquiries(ctx, models.EnquiryFilter{ListFilter: exportListFilter(q, 1)})
			return info.TotalItems, err
		},
		Build: func(ctx context.Context, q ExportQuery) (export.Dataset, error) {
			dataset := export.Dataset{Headers: []string{"Customer", "Email", "Product", "Category", "Submitted"}}
			err := collectPages(ctx, q, func(ctx context.Context, filter models.ListFilter) (int, pagination.Info, error) {
				rows, info, err := svc.ListEnquiries(ctx, models.EnquiryFilter{ListFilter: filter})
				for _, row := range rows {
					dataset.Rows = append(dataset.Rows, map[string]string{
						"Customer":  row.UserName,
						"Email":     row.UserEmail,
						"Product":   row.Product,
						"Category":  row.Category,
						"Submitted": row.CreatedAt.Format("02-01-2006"),
					})
				}
				return len(rows), info, err
			})
			return dataset, err
		},
	}
}

func referralDatasetSource(svc *ReportService) DatasetSource {
	return DatasetSource{
		Title: "Referrals",
		Count: func(ctx context.Context, q ExportQuery) (int, error) {
			_, info, err := svc.ListReferrals(ctx, models.ReferralFilter{ListFilter: exportListFilter(q, 1)})
			return info.TotalItems, err
		},
		Build: func(ctx context.Context, q ExportQuery) (export.Dataset, error) {
			dataset := export.Dataset{Headers: []string{"Code", "Referrer", "Referred", "Credits Earned", "Date"}}
			err := collectPages(ctx, q, func(ctx context.Context, filter models.ListFilter) (int, pagination.Info, error) {
				rows, info, err := svc.ListReferrals(ctx, models.ReferralFilter{ListFilter: filter, Code: q.Filters["code"]})
				for _, row := range rows {
					dataset.Rows = append(dataset.Rows, map[string]string{
						"Code":           row.Code,
						"Referrer":       row.ReferrerName,
						"Referred":       row.ReferredName,
						"Credits Earned": strconv.Itoa(row.CreditsEarned),
						"Date":           row.CreatedAt.Format("02-01-2006"),
					})
				}
				return len(rows), info, err
			})
			return dataset, err
		},
	}
}
