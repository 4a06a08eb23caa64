package models

// ReportRequest параметры отчета: период [From, To] включительно (YYYY-MM-DD)
// и опциональный фильтр по мастеру
type ReportRequest struct {
	UserID     int64  `json:"-"`
	From       string `json:"from"`
	To         string `json:"to"`
	ResourceID *int64 `json:"resourceId,omitempty"`
}

// Period период отчета
type Period struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// OfferingStat статистика по услуге
type OfferingStat struct {
	OfferingID int64   `json:"offeringId"`
	Name       string  `json:"name"`
	Completed  int     `json:"completed"`
	Revenue    float64 `json:"revenue"`
}

// WeekdayStat количество бронирований по дню недели
type WeekdayStat struct {
	Weekday string `json:"weekday"`
	Count   int    `json:"count"`
}

// StyleStat популярность стиля
type StyleStat struct {
	Style string `json:"style"`
	Count int    `json:"count"`
}

// ResourceDemand количество заявок на мастера
type ResourceDemand struct {
	ResourceID int64  `json:"resourceId"`
	Name       string `json:"name"`
	Count      int    `json:"count"`
}

// PeakTime популярное время записи
type PeakTime struct {
	Weekday string `json:"weekday"`
	Hour    int    `json:"hour"`
	Count   int    `json:"count"`
}

// ResourcePerformance показатели мастера
type ResourcePerformance struct {
	ResourceID     int64   `json:"resourceId"`
	Name           string  `json:"name"`
	TotalBookings  int     `json:"totalBookings"`
	Completed      int     `json:"completed"`
	Cancelled      int     `json:"cancelled"`
	Revenue        float64 `json:"revenue"`
	BusyHours      float64 `json:"busyHours"`
	CompletionRate float64 `json:"completionRate"`
}

// BookingAnalyticsResponse отчет по бронированиям
type BookingAnalyticsResponse struct {
	Period                 Period         `json:"period"`
	ResourceID             *int64         `json:"resourceId,omitempty"`
	TotalBookings          int            `json:"totalBookings"`
	CompletedBookings      int            `json:"completedBookings"`
	CancelledBookings      int            `json:"cancelledBookings"`
	ScheduledBookings      int            `json:"scheduledBookings"`
	TotalRevenue           float64        `json:"totalRevenue"`
	AverageDurationMinutes float64        `json:"averageDurationMinutes"`
	TopOfferings           []OfferingStat `json:"topOfferings"`
	BookingsByWeekday      []WeekdayStat  `json:"bookingsByWeekday"`
	BookingGrowth          float64        `json:"bookingGrowth"`
	RevenueGrowth          float64        `json:"revenueGrowth"`
}

// WaitlistAnalyticsResponse отчет по листу ожидания
type WaitlistAnalyticsResponse struct {
	Period          Period           `json:"period"`
	ResourceID      *int64           `json:"resourceId,omitempty"`
	TotalEntries    int              `json:"totalEntries"`
	ActiveEntries   int              `json:"activeEntries"`
	ConvertedCount  int              `json:"convertedCount"`
	ConversionRate  float64          `json:"conversionRate"`
	AverageWaitDays float64          `json:"averageWaitDays"`
	TopStyles       []StyleStat      `json:"topStyles"`
	TopResources    []ResourceDemand `json:"topResources"`
}

// ResourceAnalyticsResponse отчет по мастеру
type ResourceAnalyticsResponse struct {
	Period Period `json:"period"`
	ResourcePerformance
	AverageDurationMinutes float64        `json:"averageDurationMinutes"`
	TopOfferings           []OfferingStat `json:"topOfferings"`
	BookingGrowth          float64        `json:"bookingGrowth"`
	RevenueGrowth          float64        `json:"revenueGrowth"`
	WaitlistDemand         int            `json:"waitlistDemand"`
}

// StudioAnalyticsResponse сводный отчет по студии
type StudioAnalyticsResponse struct {
	Period                 Period                `json:"period"`
	TotalRevenue           float64               `json:"totalRevenue"`
	TotalBookings          int                   `json:"totalBookings"`
	CompletionRate         float64               `json:"completionRate"`
	WaitlistConversionRate float64               `json:"waitlistConversionRate"`
	CustomerRetentionRate  float64               `json:"customerRetentionRate"`
	ResourcePerformance    []ResourcePerformance `json:"resourcePerformance"`
	PopularStyles          []StyleStat           `json:"popularStyles"`
	PeakTimes              []PeakTime            `json:"peakTimes"`
	BusinessGrowth         float64               `json:"businessGrowth"`
	ActiveWaitlist         int                   `json:"activeWaitlist"`
	AverageWaitDays        float64               `json:"averageWaitDays"`
}

// InsightsResponse выводы и рекомендации по периоду
type InsightsResponse struct {
	Period          Period   `json:"period"`
	ResourceID      *int64   `json:"resourceId,omitempty"`
	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
}
