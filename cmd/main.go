package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	createBookingHandler "github.com/Ramses120/Copper-Salon-sub000/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/Ramses120/Copper-Salon-sub000/internal/api/handlers/delete_booking"
	deleteStaffScheduleHandler "github.com/Ramses120/Copper-Salon-sub000/internal/api/handlers/delete_staff_schedule"
	getAvailableSlotsHandler "github.com/Ramses120/Copper-Salon-sub000/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/Ramses120/Copper-Salon-sub000/internal/api/handlers/get_booking"
	getStaffScheduleHandler "github.com/Ramses120/Copper-Salon-sub000/internal/api/handlers/get_staff_schedule"
	healthHandler "github.com/Ramses120/Copper-Salon-sub000/internal/api/handlers/health"
	listBookingsHandler "github.com/Ramses120/Copper-Salon-sub000/internal/api/handlers/list_bookings"
	rescheduleBookingHandler "github.com/Ramses120/Copper-Salon-sub000/internal/api/handlers/reschedule_booking"
	servicesHandler "github.com/Ramses120/Copper-Salon-sub000/internal/api/handlers/services"
	staffHandler "github.com/Ramses120/Copper-Salon-sub000/internal/api/handlers/staff"
	updateBookingStatusHandler "github.com/Ramses120/Copper-Salon-sub000/internal/api/handlers/update_booking_status"
	updateStaffScheduleHandler "github.com/Ramses120/Copper-Salon-sub000/internal/api/handlers/update_staff_schedule"
	validateSlotHandler "github.com/Ramses120/Copper-Salon-sub000/internal/api/handlers/validate_slot"
	"github.com/Ramses120/Copper-Salon-sub000/internal/api/middleware"
	"github.com/Ramses120/Copper-Salon-sub000/internal/config"
	availabilityCache "github.com/Ramses120/Copper-Salon-sub000/internal/infra/cache/availability"
	"github.com/Ramses120/Copper-Salon-sub000/internal/infra/migrations"
	bookingRepo "github.com/Ramses120/Copper-Salon-sub000/internal/infra/storage/booking"
	scheduleRepo "github.com/Ramses120/Copper-Salon-sub000/internal/infra/storage/schedule"
	servicesRepo "github.com/Ramses120/Copper-Salon-sub000/internal/infra/storage/services"
	staffRepo "github.com/Ramses120/Copper-Salon-sub000/internal/infra/storage/staff"
	"github.com/Ramses120/Copper-Salon-sub000/internal/integrations/notifier"
	bookingsService "github.com/Ramses120/Copper-Salon-sub000/internal/service/bookings"
	catalogService "github.com/Ramses120/Copper-Salon-sub000/internal/service/catalog"
	occupancyService "github.com/Ramses120/Copper-Salon-sub000/internal/service/occupancy"
	scheduleService "github.com/Ramses120/Copper-Salon-sub000/internal/service/schedule"
	createBookingUC "github.com/Ramses120/Copper-Salon-sub000/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/Ramses120/Copper-Salon-sub000/internal/usecase/get_available_slots"
	rescheduleBookingUC "github.com/Ramses120/Copper-Salon-sub000/internal/usecase/reschedule_booking"
	validateSlotUC "github.com/Ramses120/Copper-Salon-sub000/internal/usecase/validate_slot"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/dbmetrics"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/logger"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/metrics"
	"github.com/Ramses120/Copper-Salon-sub000/pkg/txmanager"
)

// availabilityStore кэш доступности: Redis или Noop
type availabilityStore interface {
	createBookingUC.AvailabilityCache
	getAvailableSlotsUC.AvailabilityCache
	scheduleService.AvailabilityCache
	catalogService.AvailabilityCache
}

// eventPublisher издатель событий: RabbitMQ или Noop
type eventPublisher interface {
	createBookingUC.EventPublisher
}

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
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

	log.Info("Starting Copper Salon booking service...")
	log.Info("Configuration loaded from %s", *configPath)

	salonSchedule, err := cfg.SalonSchedule()
	if err != nil {
		log.Fatal("Invalid salon schedule: %v", err)
	}

	// Метрики (nil коллектор работает как no-op)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Миграции
	if cfg.Database.MigrateOnStart {
		migrator, err := migrations.NewMigrator(db, log)
		if err != nil {
			log.Fatal("Failed to init migrations: %v", err)
		}
		if err := migrator.Up(context.Background()); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		version, _ := migrator.Version(context.Background())
		log.Info("Database schema is at version %d", version)
	}

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)

	checks := map[string]healthHandler.Check{
		"postgres": wrappedDB.PingContext,
	}

	// Кэш доступности
	var cache availabilityStore = availabilityCache.Noop{}
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warn("Redis unavailable at %s, availability cache disabled: %v", cfg.Redis.Addr, err)
		} else {
			cache = availabilityCache.NewCache(redisClient, cfg.Redis.TTL(), cfg.Redis.KeyPrefix)
			checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
			log.Info("Availability cache enabled (redis=%s, ttl=%s)", cfg.Redis.Addr, cfg.Redis.TTL())
		}
	}

	// Издатель событий бронирований
	var publisher eventPublisher = notifier.Noop{}
	if cfg.RabbitMQ.Enabled {
		amqpPublisher := notifier.NewPublisher(
			cfg.RabbitMQ.URL,
			cfg.RabbitMQ.Queue,
			time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second,
			cfg.RabbitMQ.BufferSize,
			log,
			metricsCollector,
		)
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		log.Info("Booking events are published to queue %q", cfg.RabbitMQ.Queue)
	}

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	servicesRepository := servicesRepo.NewRepository(wrappedDB)
	staffRepository := staffRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Сервисы
	policy := cfg.Booking.Policy()
	occupancySvc := occupancyService.NewService(bookingRepository, servicesRepository, policy)
	scheduleSvc := scheduleService.NewService(scheduleRepository, staffRepository, salonSchedule, cache, log)
	bookingSvc := bookingsService.NewService(bookingRepository, txMgr, cache, publisher, log)
	catalogSvc := catalogService.NewService(staffRepository, servicesRepository, cache, policy, log)
	log.Info("Duration policy: %s", occupancySvc.Policy())

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		servicesRepository,
		staffRepository,
		scheduleSvc,
		occupancySvc,
		txMgr,
		cache,
		publisher,
		metricsCollector,
		log,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		servicesRepository,
		staffRepository,
		scheduleSvc,
		occupancySvc,
		txMgr,
		cache,
		publisher,
		metricsCollector,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(scheduleSvc, occupancySvc, cache, metricsCollector, log)
	validateSlotUseCase := validateSlotUC.NewUseCase(occupancySvc, servicesRepository, log)

	// Handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	validateSlot := validateSlotHandler.NewHandler(validateSlotUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	getStaffSchedule := getStaffScheduleHandler.NewHandler(scheduleSvc, log)
	updateStaffSchedule := updateStaffScheduleHandler.NewHandler(scheduleSvc, log)
	deleteStaffSchedule := deleteStaffScheduleHandler.NewHandler(scheduleSvc, log)
	staff := staffHandler.NewHandler(catalogSvc, log)
	services := servicesHandler.NewHandler(catalogSvc, log)
	health := healthHandler.NewHandler(checks, log)

	// Роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// --- Доступность ---
	api.HandleFunc("/availability", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availability/validate", validateSlot.Handle).Methods(http.MethodPost)

	// --- Бронирования ---
	var createBookingRoute http.Handler = http.HandlerFunc(createBooking.Handle)
	if cfg.RateLimit.Enabled {
		proxies, err := cfg.RateLimit.Proxies()
		if err != nil {
			log.Fatal("Invalid rate limit config: %v", err)
		}
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, proxies, metricsCollector)
		createBookingRoute = limiter.Middleware(createBookingRoute)
		log.Info("Rate limit on POST /api/bookings: %.0f req/min, burst=%d",
			cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}
	api.Handle("/bookings", createBookingRoute).Methods(http.MethodPost)
	api.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}", rescheduleBooking.Handle).Methods(http.MethodPut)
	api.HandleFunc("/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// --- Мастера и расписание ---
	api.HandleFunc("/staff", staff.List).Methods(http.MethodGet)
	api.HandleFunc("/staff", staff.Create).Methods(http.MethodPost)
	api.HandleFunc("/staff/{staffId}/schedule", getStaffSchedule.Handle).Methods(http.MethodGet)
	api.HandleFunc("/staff/{staffId}/schedule", updateStaffSchedule.Handle).Methods(http.MethodPut)
	api.HandleFunc("/staff/{staffId}/schedule/{weekday}", deleteStaffSchedule.Handle).Methods(http.MethodDelete)

	// --- Услуги ---
	api.HandleFunc("/services", services.List).Methods(http.MethodGet)
	api.HandleFunc("/services", services.Create).Methods(http.MethodPost)
	api.HandleFunc("/services/{serviceId}", services.Update).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
