package service

import (
	"context"
	"time"

	"pos-service/internal/redisclient"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// ReportService serves dashboard numbers: durable aggregates from Postgres
// plus the live today-counters the worker maintains in Redis
type ReportService struct {
	store            *store.Store
	redis            *redisclient.Client
	topVariantsLimit int
	logger           *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(store *store.Store, redis *redisclient.Client, topVariantsLimit int) *ReportService {
	return &ReportService{
		store:            store,
		redis:            redis,
		topVariantsLimit: topVariantsLimit,
		logger:           util.NamedLogger("reports"),
	}
}

// SummaryReport is the dashboard payload for a date range
type SummaryReport struct {
	From              time.Time          `json:"from"`
	To                time.Time          `json:"to"`
	SaleCount         int64              `json:"sale_count"`
	RevenueCents      int64              `json:"revenue_cents"`
	TopVariants       []store.TopVariant `json:"top_variants"`
	TodaySales        int64              `json:"today_sales,omitempty"`
	TodayRevenueCents int64              `json:"today_revenue_cents,omitempty"`
}

// Summary builds the sales summary for a tenant over [from, to). When a
// location is given, the live today-counters for that branch are included.
func (rs *ReportService) Summary(ctx context.Context, tenantID int64, locationID *int64, from, to time.Time) (*SummaryReport, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.Summary")
	defer span.End()

	summary, err := rs.store.GetSalesSummary(ctx, tenantID, locationID, from, to)
	if err != nil {
		return nil, err
	}

	top, err := rs.store.GetTopVariants(ctx, tenantID, from, to, rs.topVariantsLimit)
	if err != nil {
		return nil, err
	}

	report := &SummaryReport{
		From:         from,
		To:           to,
		SaleCount:    summary.SaleCount,
		RevenueCents: summary.RevenueCents,
		TopVariants:  top,
	}

	if locationID != nil {
		day := time.Now().UTC().Format("2006-01-02")
		sales, revenue, err := rs.redis.GetDashboard(ctx, tenantID, *locationID, day)
		if err != nil {
			rs.logger.Warn("Failed to read live dashboard counters", zap.Error(err))
		} else {
			report.TodaySales = sales
			report.TodayRevenueCents = revenue
		}
	}

	return report, nil
}
