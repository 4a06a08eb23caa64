package advisor

// Ключи метрик в Snapshot
const (
	MetricTotalRevenue           = "total_revenue"
	MetricTotalBookings          = "total_bookings"
	MetricCompletionRate         = "completion_rate"
	MetricWaitlistConversionRate = "waitlist_conversion_rate"
	MetricRetentionRate          = "customer_retention_rate"
	MetricBusinessGrowth         = "business_growth"
	MetricActiveWaitlist         = "active_waitlist"
	MetricAverageWaitDays        = "average_wait_days"
)

// ResourceSummary краткие данные мастера для советника
type ResourceSummary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Specialty   string `json:"specialty"`
	Bio         string `json:"bio,omitempty"`
	IsAvailable bool   `json:"is_available"`
}

// Preferences пожелания клиента
type Preferences struct {
	Style          string `json:"style"`
	Size           string `json:"size"`
	PreferredDates string `json:"preferred_dates"`
	Budget         string `json:"budget"`
	Description    string `json:"description"`
}

// Recommendation рекомендованный мастер
type Recommendation struct {
	ResourceID *int64 `json:"resource_id"`
	Message    string `json:"message"`
}

// Snapshot срез аналитики за период (даты в формате YYYY-MM-DD)
type Snapshot struct {
	From          string             `json:"from"`
	To            string             `json:"to"`
	ResourceName  string             `json:"resource_name,omitempty"`
	Metrics       map[string]float64 `json:"metrics"`
	PopularStyles []string           `json:"popular_styles,omitempty"`
	PeakTimes     []string           `json:"peak_times,omitempty"`
}

// Summary выводы и рекомендации по аналитике
type Summary struct {
	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
}

// AlternativesRequest контекст отмененного бронирования и реальные варианты замены
type AlternativesRequest struct {
	BookingID    int64             `json:"booking_id"`
	ResourceID   int64             `json:"resource_id"`
	ResourceName string            `json:"resource_name"`
	OfferingName string            `json:"offering_name"`
	StartTime    string            `json:"start_time"`
	Reason       string            `json:"reason"`
	Candidates   []ResourceSummary `json:"candidates"`
	Dates        []string          `json:"dates"`
}

// Alternatives предложенные варианты
type Alternatives struct {
	Message     string   `json:"message"`
	ResourceIDs []int64  `json:"resource_ids"`
	Dates       []string `json:"dates"`
}

type waitlistMessageResponse struct {
	Message string `json:"message"`
}

type recommendRequest struct {
	Resources   []ResourceSummary `json:"resources"`
	Preferences Preferences       `json:"preferences"`
}
