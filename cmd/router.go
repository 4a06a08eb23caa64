package main

import (
	"net/http"

	"github.com/gorilla/mux"

	cancelBookingHandler "github.com/inksync/studio-booking/internal/api/handlers/cancel_booking"
	completeBookingHandler "github.com/inksync/studio-booking/internal/api/handlers/complete_booking"
	createBookingHandler "github.com/inksync/studio-booking/internal/api/handlers/create_booking"
	createOfferingHandler "github.com/inksync/studio-booking/internal/api/handlers/create_offering"
	createResourceHandler "github.com/inksync/studio-booking/internal/api/handlers/create_resource"
	getAnalyticsHandler "github.com/inksync/studio-booking/internal/api/handlers/get_analytics"
	getAvailabilityHandler "github.com/inksync/studio-booking/internal/api/handlers/get_availability"
	getAvailableSlotsHandler "github.com/inksync/studio-booking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/inksync/studio-booking/internal/api/handlers/get_booking"
	getCustomerBookingsHandler "github.com/inksync/studio-booking/internal/api/handlers/get_customer_bookings"
	getResourceHandler "github.com/inksync/studio-booking/internal/api/handlers/get_resource"
	getResourceBookingsHandler "github.com/inksync/studio-booking/internal/api/handlers/get_resource_bookings"
	getResourceWaitlistHandler "github.com/inksync/studio-booking/internal/api/handlers/get_resource_waitlist"
	getSlotsHandler "github.com/inksync/studio-booking/internal/api/handlers/get_slots"
	"github.com/inksync/studio-booking/internal/api/handlers/health"
	joinWaitlistHandler "github.com/inksync/studio-booking/internal/api/handlers/join_waitlist"
	listOfferingsHandler "github.com/inksync/studio-booking/internal/api/handlers/list_offerings"
	listResourcesHandler "github.com/inksync/studio-booking/internal/api/handlers/list_resources"
	listStylesHandler "github.com/inksync/studio-booking/internal/api/handlers/list_styles"
	listWaitlistHandler "github.com/inksync/studio-booking/internal/api/handlers/list_waitlist"
	recommendResourceHandler "github.com/inksync/studio-booking/internal/api/handlers/recommend_resource"
	removeWaitlistHandler "github.com/inksync/studio-booking/internal/api/handlers/remove_waitlist"
	rescheduleBookingHandler "github.com/inksync/studio-booking/internal/api/handlers/reschedule_booking"
	setWorkingHoursHandler "github.com/inksync/studio-booking/internal/api/handlers/set_working_hours"
	updateOfferingHandler "github.com/inksync/studio-booking/internal/api/handlers/update_offering"
	updateResourceHandler "github.com/inksync/studio-booking/internal/api/handlers/update_resource"
	updateWaitlistHandler "github.com/inksync/studio-booking/internal/api/handlers/update_waitlist"
	"github.com/inksync/studio-booking/internal/api/middleware"
	"github.com/inksync/studio-booking/internal/service/analytics"
	"github.com/inksync/studio-booking/internal/service/availability"
	"github.com/inksync/studio-booking/internal/service/bookings"
	"github.com/inksync/studio-booking/internal/service/resources"
	"github.com/inksync/studio-booking/internal/service/waitlist"
	cancelBookingUC "github.com/inksync/studio-booking/internal/usecase/cancel_booking"
	createBookingUC "github.com/inksync/studio-booking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/inksync/studio-booking/internal/usecase/get_available_slots"
	joinWaitlistUC "github.com/inksync/studio-booking/internal/usecase/join_waitlist"
	recommendResourceUC "github.com/inksync/studio-booking/internal/usecase/recommend_resource"
	rescheduleBookingUC "github.com/inksync/studio-booking/internal/usecase/reschedule_booking"
	"github.com/inksync/studio-booking/pkg/logger"
)

// app сервисы и use cases, которые обслуживает HTTP API
type app struct {
	availability *availability.Service
	resources    *resources.Service
	bookings     *bookings.Service
	waitlist     *waitlist.Service
	analytics    *analytics.Service

	createBooking     *createBookingUC.UseCase
	cancelBooking     *cancelBookingUC.UseCase
	rescheduleBooking *rescheduleBookingUC.UseCase
	startTimes        *getAvailableSlotsUC.UseCase
	joinWaitlist      *joinWaitlistUC.UseCase
	recommend         *recommendResourceUC.UseCase
}

// registerRoutes регистрирует маршруты /api/v1 и проверки здоровья.
// limiter может быть nil.
func registerRoutes(r *mux.Router, a *app, hc *health.Handler, limiter *middleware.RateLimiter, log *logger.Logger) {
	loc := a.availability.Location()

	// Инициализируем handlers
	listResources := listResourcesHandler.NewHandler(a.resources, log)
	getResource := getResourceHandler.NewHandler(a.resources, log)
	createResource := createResourceHandler.NewHandler(a.resources, log)
	updateResource := updateResourceHandler.NewHandler(a.resources, log)
	setWorkingHours := setWorkingHoursHandler.NewHandler(a.resources, log)
	listOfferings := listOfferingsHandler.NewHandler(a.resources, log)
	createOffering := createOfferingHandler.NewHandler(a.resources, log)
	updateOffering := updateOfferingHandler.NewHandler(a.resources, log)
	listStyles := listStylesHandler.NewHandler(a.resources)

	getAvailability := getAvailabilityHandler.NewHandler(a.availability, log)
	getSlots := getSlotsHandler.NewHandler(a.availability, log)
	getStartTimes := getAvailableSlotsHandler.NewHandler(a.startTimes, log)

	createBooking := createBookingHandler.NewHandler(a.createBooking, log)
	getBooking := getBookingHandler.NewHandler(a.bookings, log)
	cancelBooking := cancelBookingHandler.NewHandler(a.cancelBooking, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(a.rescheduleBooking, log)
	completeBooking := completeBookingHandler.NewHandler(a.bookings, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(a.bookings, log)
	getResourceBookings := getResourceBookingsHandler.NewHandler(a.bookings, loc, log)

	joinWaitlist := joinWaitlistHandler.NewHandler(a.joinWaitlist, log)
	listWaitlist := listWaitlistHandler.NewHandler(a.waitlist, log)
	updateWaitlist := updateWaitlistHandler.NewHandler(a.waitlist, log)
	removeWaitlist := removeWaitlistHandler.NewHandler(a.waitlist, log)
	getResourceWaitlist := getResourceWaitlistHandler.NewHandler(a.waitlist, log)

	recommend := recommendResourceHandler.NewHandler(a.recommend, log)
	reports := getAnalyticsHandler.NewHandler(a.analytics, log)

	// Проверки здоровья (без префикса и без ограничения частоты)
	r.HandleFunc("/health/live", hc.Live).Methods(http.MethodGet)
	r.HandleFunc("/health/ready", hc.Ready).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()
	if limiter != nil {
		api.Use(limiter.Limit)
	}

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// --- Каталог ---
	api.HandleFunc("/resources", listResources.Handle).Methods(http.MethodGet)
	api.HandleFunc("/resources/{resourceId}", getResource.Handle).Methods(http.MethodGet)
	api.HandleFunc("/resources/{resourceId}/offerings", listOfferings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/styles", listStyles.Handle).Methods(http.MethodGet)

	// --- Доступность ---
	api.HandleFunc("/resources/{resourceId}/availability", getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/resources/{resourceId}/slots", getSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/resources/{resourceId}/offerings/{offeringId}/start-times",
		getStartTimes.Handle).Methods(http.MethodGet)

	// --- Советник ---
	api.HandleFunc("/advisor/recommend", recommend.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Управление мастерами (для владельцев) ---
	protected.HandleFunc("/resources", createResource.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/resources/{resourceId}", updateResource.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/resources/{resourceId}/working-hours", setWorkingHours.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/resources/{resourceId}/offerings", createOffering.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/offerings/{offeringId}", updateOffering.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/resources/{resourceId}/bookings", getResourceBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/resources/{resourceId}/waitlist", getResourceWaitlist.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/customers/{customerId}/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)

	// --- Лист ожидания ---
	protected.HandleFunc("/waitlist", joinWaitlist.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/waitlist", listWaitlist.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/waitlist/{entryId}", updateWaitlist.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/waitlist/{entryId}", removeWaitlist.Handle).Methods(http.MethodDelete)

	// --- Аналитика ---
	protected.HandleFunc("/analytics/bookings", reports.Bookings).Methods(http.MethodGet)
	protected.HandleFunc("/analytics/waitlist", reports.Waitlist).Methods(http.MethodGet)
	protected.HandleFunc("/analytics/resources/{resourceId}", reports.Resource).Methods(http.MethodGet)
	protected.HandleFunc("/analytics/studio", reports.Studio).Methods(http.MethodGet)
	protected.HandleFunc("/analytics/insights", reports.Insights).Methods(http.MethodGet)
}
