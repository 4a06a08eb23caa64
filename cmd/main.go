package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/inksync/studio-booking/internal/api/handlers/health"
	"github.com/inksync/studio-booking/internal/api/middleware"
	"github.com/inksync/studio-booking/internal/config"
	"github.com/inksync/studio-booking/internal/domain"
	"github.com/inksync/studio-booking/internal/infra/cache"
	"github.com/inksync/studio-booking/internal/infra/events"
	"github.com/inksync/studio-booking/internal/infra/lock"
	"github.com/inksync/studio-booking/internal/infra/redisx"
	"github.com/inksync/studio-booking/internal/integrations/advisor"
	"github.com/inksync/studio-booking/internal/integrations/calendar"
	"github.com/inksync/studio-booking/internal/integrations/notifier"
	analyticsService "github.com/inksync/studio-booking/internal/service/analytics"
	availabilityService "github.com/inksync/studio-booking/internal/service/availability"
	bookingsService "github.com/inksync/studio-booking/internal/service/bookings"
	resourcesService "github.com/inksync/studio-booking/internal/service/resources"
	sideEffectsService "github.com/inksync/studio-booking/internal/service/sideeffects"
	waitlistService "github.com/inksync/studio-booking/internal/service/waitlist"
	cancelBookingUC "github.com/inksync/studio-booking/internal/usecase/cancel_booking"
	createBookingUC "github.com/inksync/studio-booking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/inksync/studio-booking/internal/usecase/get_available_slots"
	joinWaitlistUC "github.com/inksync/studio-booking/internal/usecase/join_waitlist"
	recommendResourceUC "github.com/inksync/studio-booking/internal/usecase/recommend_resource"
	rescheduleBookingUC "github.com/inksync/studio-booking/internal/usecase/reschedule_booking"
	"github.com/inksync/studio-booking/internal/worker/completion"
	"github.com/inksync/studio-booking/internal/worker/dispatcher"
	"github.com/inksync/studio-booking/pkg/logger"
	"github.com/inksync/studio-booking/pkg/metrics"
)

const lockKeyPrefix = "studio:v1:lock:"

// availabilityCache кэш дней доступности с инвалидацией по ресурсу
type availabilityCache interface {
	GetOrLoadDays(
		ctx context.Context,
		resourceID int64,
		from, to time.Time,
		load func(ctx context.Context) ([]domain.DayAvailability, error),
	) ([]domain.DayAvailability, error)
	Invalidate(ctx context.Context, resourceID int64) error
}

type eventPublisher interface {
	Publish(ctx context.Context, ev events.Event) error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting studio-booking (%s)...", cfg.Studio.Name)
	log.Info("Configuration loaded from config.toml")

	loc, err := cfg.Studio.Location()
	if err != nil {
		log.Fatal("Failed to load studio timezone %q: %v", cfg.Studio.Timezone, err)
	}

	rootCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище
	store, err := openStorage(rootCtx, cfg, metricsCollector, stopMetricsCh, log)
	if err != nil {
		log.Fatal("Failed to open storage: %v", err)
	}
	log.Info("Storage ready (driver=%s)", cfg.Storage.Driver)

	// Redis: кэш доступности, события и распределенная блокировка
	var (
		rdb       *redis.Client
		dayCache  availabilityCache = cache.Noop{}
		publisher eventPublisher    = events.Noop{}
		locker    lock.Locker       = lock.NewMemoryLocker()
	)
	if cfg.Redis.Enabled {
		rdb, err = redisx.NewClient(rootCtx, redisx.Config{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to redis: %v", err)
		}
		dayCache = cache.NewAvailabilityCache(rdb, time.Duration(cfg.Redis.CacheTTL)*time.Second, log)

		redisPublisher := events.NewRedisPublisher(rdb, cfg.Redis.EventsChannel)
		publisher = redisPublisher
		go func() {
			err := redisPublisher.Subscribe(rootCtx, func(_ context.Context, ev events.Event) {
				log.Debug("event %s: type=%s resource=%d booking=%d", ev.ID, ev.Type, ev.ResourceID, ev.BookingID)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Warn("Events subscription stopped: %v", err)
			}
		}()
		log.Info("Redis connected (addr=%s, channel=%s)", cfg.Redis.Addr, cfg.Redis.EventsChannel)
	}
	if cfg.Booking.Locker == "redis" {
		if rdb == nil {
			log.Fatal("booking.locker=redis requires redis.enabled")
		}
		locker = lock.NewRedisLocker(rdb, lockKeyPrefix,
			time.Duration(cfg.Booking.LockTTL)*time.Millisecond,
			time.Duration(cfg.Booking.LockWait)*time.Millisecond,
		)
	}
	log.Info("Resource locker: %s", cfg.Booking.Locker)

	// Инициализируем интеграционных клиентов
	var calendarAdapter calendar.Adapter = calendar.NewMemoryAdapter()
	if cfg.Calendar.Mode == "http" {
		calendarAdapter = calendar.NewClient(cfg.Calendar.URL, time.Duration(cfg.Calendar.Timeout)*time.Second, log)
	}

	var primaryAdvisor advisor.Advisor
	if cfg.Advisor.Enabled {
		primaryAdvisor = advisor.NewClient(cfg.Advisor.URL, cfg.Advisor.APIKey, time.Duration(cfg.Advisor.Timeout)*time.Second, log)
	}
	advisorClient := advisor.WithFallback(primaryAdvisor, log)

	var sender notifier.Sender = notifier.NewLogSender(log)
	if cfg.Notifications.TelegramToken != "" {
		tg, err := notifier.NewTelegramSender(cfg.Notifications.TelegramToken, log)
		if err != nil {
			log.Fatal("Failed to initialize telegram sender: %v", err)
		}
		sender = tg
	}
	templates := notifier.NewTemplates(cfg.Studio.Name, loc)
	log.Info("Integrations initialized (calendar=%s, advisor=%t, telegram=%t)",
		cfg.Calendar.Mode, cfg.Advisor.Enabled, cfg.Notifications.TelegramToken != "")

	// Фоновые задачи после коммита
	tasks := dispatcher.New(
		cfg.Dispatcher.Workers,
		cfg.Dispatcher.QueueSize,
		time.Duration(cfg.Dispatcher.TaskTimeout)*time.Second,
		log,
		metricsCollector,
	)
	tasks.Start()

	// Инициализируем сервисы
	availabilitySvc := availabilityService.NewService(
		store.resources,
		store.bookings,
		calendarAdapter,
		dayCache,
		availabilityService.Config{
			Location:           loc,
			LimitedThreshold:   cfg.Booking.LimitedThreshold,
			DefaultGranularity: cfg.Booking.DefaultGranularity,
			MaxRangeDays:       cfg.Booking.MaxRangeDays,
		},
		log,
	)
	waitlistSvc := waitlistService.NewService(store.waitlist, store.resources, log)
	effects := sideEffectsService.NewService(
		tasks,
		calendarAdapter,
		store.bookings,
		waitlistSvc,
		sender,
		advisorClient,
		templates,
		dayCache,
		publisher,
		log,
	)
	resourcesSvc := resourcesService.NewService(store.resources, store.offerings, effects, store.tx, log)
	bookingsSvc := bookingsService.NewService(store.bookings, store.resources, effects, store.tx, metricsCollector, log)
	analyticsSvc := analyticsService.NewService(
		store.bookings,
		store.waitlist,
		store.resources,
		advisorClient,
		analyticsService.Config{Location: loc, MaxRangeDays: cfg.Booking.MaxRangeDays},
		log,
	)

	// Инициализируем use cases
	a := &app{
		availability: availabilitySvc,
		resources:    resourcesSvc,
		bookings:     bookingsSvc,
		waitlist:     waitlistSvc,
		analytics:    analyticsSvc,
		createBooking: createBookingUC.NewUseCase(
			store.bookings, store.resources, store.offerings, store.waitlist,
			availabilitySvc, locker, store.tx, effects, metricsCollector, log,
		),
		cancelBooking: cancelBookingUC.NewUseCase(
			store.bookings, store.resources, availabilitySvc, advisorClient,
			store.tx, effects, metricsCollector, cfg.Booking.AlternativeDays, log,
		),
		rescheduleBooking: rescheduleBookingUC.NewUseCase(
			store.bookings, store.resources, store.offerings,
			availabilitySvc, locker, store.tx, effects, metricsCollector, log,
		),
		startTimes:   getAvailableSlotsUC.NewUseCase(store.offerings, availabilitySvc, log),
		joinWaitlist: joinWaitlistUC.NewUseCase(waitlistSvc, advisorClient, effects, log),
		recommend:    recommendResourceUC.NewUseCase(store.resources, advisorClient, log),
	}

	// Автоматическое завершение прошедших визитов
	if cfg.Completion.Enabled {
		worker := completion.New(bookingsSvc, time.Duration(cfg.Completion.Interval)*time.Second, log)
		go worker.Run(rootCtx)
		log.Info("Completion worker started (interval=%ds)", cfg.Completion.Interval)
	}

	// Проверки готовности
	checks := map[string]health.Checker{
		"storage": health.CheckerFunc(store.ping),
	}
	if rdb != nil {
		checks["redis"] = health.CheckerFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	healthHandler := health.NewHandler(checks, log)

	// Ограничение частоты запросов
	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, 10*time.Minute)
		go func() {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-rootCtx.Done():
					return
				case <-ticker.C:
					limiter.Cleanup()
				}
			}
		}()
		log.Info("Rate limit enabled (%.1f rps, burst %d)", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	registerRoutes(r, a, healthHandler, limiter, log)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", middleware.HeaderUserID, middleware.HeaderRequestID},
		ExposedHeaders: []string{middleware.HeaderRequestID},
	})

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      corsHandler.Handler(r),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем фоновые задачи, затем закрываем хранилища
	stopWorkers()
	if err := tasks.Stop(shutdownCtx); err != nil {
		log.Warn("Dispatcher did not drain: %v", err)
	}

	close(stopMetricsCh)

	if err := store.close(); err != nil {
		log.Error("Failed to close storage: %v", err)
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error("Failed to close redis: %v", err)
		}
	}

	log.Info("Server stopped gracefully")
}
