package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/inksync/studio-booking/internal/domain"
	"github.com/inksync/studio-booking/internal/infra/storage/resource"
	"github.com/inksync/studio-booking/internal/integrations/advisor"
	"github.com/inksync/studio-booking/internal/service/analytics/models"
)

const defaultMaxRangeDays = 366

// Config настройки аналитики
type Config struct {
	Location     *time.Location
	MaxRangeDays int
}

// Service отчеты по бронированиям, листу ожидания и мастерам. Только чтение.
type Service struct {
	bookingRepo  BookingRepository
	waitlistRepo WaitlistRepository
	resourceRepo ResourceRepository
	advisor      Advisor
	cfg          Config
	logger       Logger
}

// NewService создает сервис аналитики
func NewService(
	bookingRepo BookingRepository,
	waitlistRepo WaitlistRepository,
	resourceRepo ResourceRepository,
	advisorClient Advisor,
	cfg Config,
	logger Logger,
) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.MaxRangeDays <= 0 {
		cfg.MaxRangeDays = defaultMaxRangeDays
	}
	return &Service{
		bookingRepo:  bookingRepo,
		waitlistRepo: waitlistRepo,
		resourceRepo: resourceRepo,
		advisor:      advisorClient,
		cfg:          cfg,
		logger:       logger,
	}
}

// period полуинтервал [start, end) в часовом поясе студии
type period struct {
	start time.Time
	end   time.Time
}

func (p period) dto() models.Period {
	return models.Period{
		From: p.start.Format(domain.DateFormat),
		To:   p.end.AddDate(0, 0, -1).Format(domain.DateFormat),
	}
}

// BookingAnalytics отчет по бронированиям за период с приростом к предыдущему периоду
func (s *Service) BookingAnalytics(ctx context.Context, req *models.ReportRequest) (*models.BookingAnalyticsResponse, error) {
	cur, prev, err := s.prepare(ctx, "BookingAnalytics", req)
	if err != nil {
		return nil, err
	}

	var curBookings, prevBookings []*domain.Booking
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		curBookings, err = s.loadBookings(gctx, cur, req.ResourceID)
		return err
	})
	g.Go(func() (err error) {
		prevBookings, err = s.loadBookings(gctx, prev, req.ResourceID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("BookingAnalytics: load error: %v", err)
		return nil, fmt.Errorf("%w: BookingAnalytics - load error: %v", ErrInternal, err)
	}

	curStats := collectBookings(curBookings, s.cfg.Location)
	prevStats := collectBookings(prevBookings, s.cfg.Location)

	return &models.BookingAnalyticsResponse{
		Period:                 cur.dto(),
		ResourceID:             req.ResourceID,
		TotalBookings:          curStats.total,
		CompletedBookings:      curStats.completed,
		CancelledBookings:      curStats.cancelled,
		ScheduledBookings:      curStats.scheduled,
		TotalRevenue:           round2(curStats.revenue),
		AverageDurationMinutes: curStats.averageDuration(),
		TopOfferings:           curStats.topOfferings(),
		BookingsByWeekday:      curStats.byWeekday(),
		BookingGrowth:          Growth(float64(curStats.total), float64(prevStats.total)),
		RevenueGrowth:          Growth(curStats.revenue, prevStats.revenue),
	}, nil
}

// WaitlistAnalytics отчет по заявкам, созданным за период
func (s *Service) WaitlistAnalytics(ctx context.Context, req *models.ReportRequest) (*models.WaitlistAnalyticsResponse, error) {
	cur, _, err := s.prepare(ctx, "WaitlistAnalytics", req)
	if err != nil {
		return nil, err
	}

	var (
		entries   []*domain.WaitlistEntry
		resources []*domain.Resource
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		entries, err = s.loadWaitlist(gctx, cur, req.ResourceID)
		return err
	})
	g.Go(func() (err error) {
		resources, err = s.resourceRepo.List(gctx, false)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("WaitlistAnalytics: load error: %v", err)
		return nil, fmt.Errorf("%w: WaitlistAnalytics - load error: %v", ErrInternal, err)
	}

	st := collectWaitlist(entries)
	return &models.WaitlistAnalyticsResponse{
		Period:          cur.dto(),
		ResourceID:      req.ResourceID,
		TotalEntries:    st.total,
		ActiveEntries:   st.active,
		ConvertedCount:  st.converted,
		ConversionRate:  rate(st.converted, st.total),
		AverageWaitDays: st.averageWaitDays(),
		TopStyles:       st.topStyles(),
		TopResources:    st.topResources(resourceNames(resources)),
	}, nil
}

// ResourceAnalytics отчет по одному мастеру
func (s *Service) ResourceAnalytics(ctx context.Context, req *models.ReportRequest) (*models.ResourceAnalyticsResponse, error) {
	if req.ResourceID == nil {
		return nil, fmt.Errorf("%w: resource id is required", ErrInvalidInput)
	}

	cur, prev, err := s.prepare(ctx, "ResourceAnalytics", req)
	if err != nil {
		return nil, err
	}

	res, err := s.getResource(ctx, "ResourceAnalytics", *req.ResourceID)
	if err != nil {
		return nil, err
	}

	var (
		curBookings, prevBookings []*domain.Booking
		entries                   []*domain.WaitlistEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		curBookings, err = s.loadBookings(gctx, cur, req.ResourceID)
		return err
	})
	g.Go(func() (err error) {
		prevBookings, err = s.loadBookings(gctx, prev, req.ResourceID)
		return err
	})
	g.Go(func() (err error) {
		entries, err = s.loadWaitlist(gctx, cur, req.ResourceID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("ResourceAnalytics: load error for resource=%d: %v", res.ID, err)
		return nil, fmt.Errorf("%w: ResourceAnalytics - load error: %v", ErrInternal, err)
	}

	curStats := collectBookings(curBookings, s.cfg.Location)
	prevStats := collectBookings(prevBookings, s.cfg.Location)

	return &models.ResourceAnalyticsResponse{
		Period:                 cur.dto(),
		ResourcePerformance:    curStats.performance(res),
		AverageDurationMinutes: curStats.averageDuration(),
		TopOfferings:           curStats.topOfferings(),
		BookingGrowth:          Growth(float64(curStats.total), float64(prevStats.total)),
		RevenueGrowth:          Growth(curStats.revenue, prevStats.revenue),
		WaitlistDemand:         len(entries),
	}, nil
}

// StudioAnalytics сводный отчет по студии
func (s *Service) StudioAnalytics(ctx context.Context, req *models.ReportRequest) (*models.StudioAnalyticsResponse, error) {
	scoped := *req
	scoped.ResourceID = nil

	cur, prev, err := s.prepare(ctx, "StudioAnalytics", &scoped)
	if err != nil {
		return nil, err
	}

	var (
		curBookings, prevBookings []*domain.Booking
		entries                   []*domain.WaitlistEntry
		resources                 []*domain.Resource
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		curBookings, err = s.loadBookings(gctx, cur, nil)
		return err
	})
	g.Go(func() (err error) {
		prevBookings, err = s.loadBookings(gctx, prev, nil)
		return err
	})
	g.Go(func() (err error) {
		entries, err = s.loadWaitlist(gctx, cur, nil)
		return err
	})
	g.Go(func() (err error) {
		resources, err = s.resourceRepo.List(gctx, false)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("StudioAnalytics: load error: %v", err)
		return nil, fmt.Errorf("%w: StudioAnalytics - load error: %v", ErrInternal, err)
	}

	curStats := collectBookings(curBookings, s.cfg.Location)
	prevStats := collectBookings(prevBookings, s.cfg.Location)
	wl := collectWaitlist(entries)

	perResource := make(map[int64][]*domain.Booking, len(resources))
	for _, b := range curBookings {
		perResource[b.ResourceID] = append(perResource[b.ResourceID], b)
	}
	performance := make([]models.ResourcePerformance, 0, len(resources))
	for _, res := range resources {
		performance = append(performance, collectBookings(perResource[res.ID], s.cfg.Location).performance(res))
	}

	return &models.StudioAnalyticsResponse{
		Period:                 cur.dto(),
		TotalRevenue:           round2(curStats.revenue),
		TotalBookings:          curStats.total,
		CompletionRate:         rate(curStats.completed, curStats.total),
		WaitlistConversionRate: rate(wl.converted, wl.total),
		CustomerRetentionRate:  curStats.retention(),
		ResourcePerformance:    performance,
		PopularStyles:          wl.topStyles(),
		PeakTimes:              peakTimes(curBookings, s.cfg.Location),
		BusinessGrowth:         Growth(curStats.revenue, prevStats.revenue),
		ActiveWaitlist:         wl.active,
		AverageWaitDays:        wl.averageWaitDays(),
	}, nil
}

// Insights выводы и рекомендации советника по периоду.
// С фильтром по мастеру строятся по его отчету, иначе по отчету студии.
func (s *Service) Insights(ctx context.Context, req *models.ReportRequest) (*models.InsightsResponse, error) {
	var snapshot advisor.Snapshot

	if req.ResourceID != nil {
		report, err := s.ResourceAnalytics(ctx, req)
		if err != nil {
			return nil, err
		}
		snapshot = advisor.Snapshot{
			From:         report.Period.From,
			To:           report.Period.To,
			ResourceName: report.Name,
			Metrics: map[string]float64{
				advisor.MetricTotalRevenue:   report.Revenue,
				advisor.MetricTotalBookings:  float64(report.TotalBookings),
				advisor.MetricCompletionRate: report.CompletionRate,
				advisor.MetricBusinessGrowth: report.RevenueGrowth,
				advisor.MetricActiveWaitlist: float64(report.WaitlistDemand),
			},
		}
	} else {
		report, err := s.StudioAnalytics(ctx, req)
		if err != nil {
			return nil, err
		}
		snapshot = advisor.Snapshot{
			From: report.Period.From,
			To:   report.Period.To,
			Metrics: map[string]float64{
				advisor.MetricTotalRevenue:           report.TotalRevenue,
				advisor.MetricTotalBookings:          float64(report.TotalBookings),
				advisor.MetricCompletionRate:         report.CompletionRate,
				advisor.MetricWaitlistConversionRate: report.WaitlistConversionRate,
				advisor.MetricRetentionRate:          report.CustomerRetentionRate,
				advisor.MetricBusinessGrowth:         report.BusinessGrowth,
				advisor.MetricActiveWaitlist:         float64(report.ActiveWaitlist),
				advisor.MetricAverageWaitDays:        report.AverageWaitDays,
			},
		}
		for _, st := range report.PopularStyles {
			snapshot.PopularStyles = append(snapshot.PopularStyles, st.Style)
		}
		for _, pt := range report.PeakTimes {
			snapshot.PeakTimes = append(snapshot.PeakTimes, fmt.Sprintf("%s %02d:00", pt.Weekday, pt.Hour))
		}
	}

	resp := &models.InsightsResponse{
		Period:          models.Period{From: snapshot.From, To: snapshot.To},
		ResourceID:      req.ResourceID,
		Insights:        []string{},
		Recommendations: []string{},
	}

	summary, err := s.advisor.Summarize(ctx, snapshot)
	if err != nil {
		s.logger.Warn("Insights: advisor error: %v", err)
		return resp, nil
	}
	if summary != nil {
		resp.Insights = append(resp.Insights, summary.Insights...)
		resp.Recommendations = append(resp.Recommendations, summary.Recommendations...)
	}
	return resp, nil
}

// prepare разбирает период и проверяет доступ к отчету по мастеру
func (s *Service) prepare(ctx context.Context, op string, req *models.ReportRequest) (period, period, error) {
	cur, err := s.parsePeriod(req.From, req.To)
	if err != nil {
		s.logger.Warn("%s: invalid period %q - %q: %v", op, req.From, req.To, err)
		return period{}, period{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.ResourceID != nil {
		res, err := s.getResource(ctx, op, *req.ResourceID)
		if err != nil {
			return period{}, period{}, err
		}
		if !res.IsManagedBy(req.UserID) {
			s.logger.Warn("%s: access denied for user=%d to resource=%d", op, req.UserID, res.ID)
			return period{}, period{}, ErrAccessDenied
		}
	}

	length := cur.end.Sub(cur.start)
	days := int(length.Hours()/hoursPerDay + 0.5)
	prev := period{start: cur.start.AddDate(0, 0, -days), end: cur.start}

	s.logger.Info("%s: period %s - %s, previous from %s, resource=%v",
		op, req.From, req.To, prev.start.Format(domain.DateFormat), req.ResourceID)
	return cur, prev, nil
}

func (s *Service) parsePeriod(from, to string) (period, error) {
	start, err := time.ParseInLocation(domain.DateFormat, from, s.cfg.Location)
	if err != nil {
		return period{}, fmt.Errorf("invalid from date: %w", err)
	}
	last, err := time.ParseInLocation(domain.DateFormat, to, s.cfg.Location)
	if err != nil {
		return period{}, fmt.Errorf("invalid to date: %w", err)
	}
	if last.Before(start) {
		return period{}, errors.New("to must not be before from")
	}

	end := last.AddDate(0, 0, 1)
	if end.After(start.AddDate(0, 0, s.cfg.MaxRangeDays)) {
		return period{}, fmt.Errorf("period exceeds %d days", s.cfg.MaxRangeDays)
	}
	return period{start: start, end: end}, nil
}

// loadBookings бронирования, начавшиеся в периоде, включая отмененные
func (s *Service) loadBookings(ctx context.Context, p period, resourceID *int64) ([]*domain.Booking, error) {
	list, err := s.bookingRepo.List(ctx, domain.BookingsFilter{
		ResourceID:      resourceID,
		From:            &p.start,
		To:              &p.end,
		IncludeInactive: true,
	})
	if err != nil {
		return nil, err
	}

	out := list[:0]
	for _, b := range list {
		if !b.StartTime.Before(p.start) && b.StartTime.Before(p.end) {
			out = append(out, b)
		}
	}
	return out, nil
}

// loadWaitlist заявки, созданные в периоде, включая неактивные
func (s *Service) loadWaitlist(ctx context.Context, p period, resourceID *int64) ([]*domain.WaitlistEntry, error) {
	list, err := s.waitlistRepo.List(ctx, domain.WaitlistFilter{
		ResourceID:      resourceID,
		IncludeInactive: true,
	})
	if err != nil {
		return nil, err
	}

	out := list[:0]
	for _, e := range list {
		if !e.CreatedAt.Before(p.start) && e.CreatedAt.Before(p.end) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Service) getResource(ctx context.Context, op string, id int64) (*domain.Resource, error) {
	res, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, resource.ErrResourceNotFound) {
			s.logger.Warn("%s: resource id=%d not found", op, id)
			return nil, ErrResourceNotFound
		}
		s.logger.Error("%s: repository error for resource id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return res, nil
}

func resourceNames(resources []*domain.Resource) map[int64]string {
	names := make(map[int64]string, len(resources))
	for _, r := range resources {
		names[r.ID] = r.Name
	}
	return names
}
