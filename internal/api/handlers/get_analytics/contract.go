package get_analytics

import (
	"context"

	"github.com/inksync/studio-booking/internal/service/analytics/models"
)

type AnalyticsService interface {
	BookingAnalytics(ctx context.Context, req *models.ReportRequest) (*models.BookingAnalyticsResponse, error)
	WaitlistAnalytics(ctx context.Context, req *models.ReportRequest) (*models.WaitlistAnalyticsResponse, error)
	ResourceAnalytics(ctx context.Context, req *models.ReportRequest) (*models.ResourceAnalyticsResponse, error)
	StudioAnalytics(ctx context.Context, req *models.ReportRequest) (*models.StudioAnalyticsResponse, error)
	Insights(ctx context.Context, req *models.ReportRequest) (*models.InsightsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
