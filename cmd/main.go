package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers/cancel_booking"
	checkSlotHandler "github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers/check_slot"
	createBookingHandler "github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers/create_booking"
	createCouponHandler "github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers/create_coupon"
	createDefaultAvailabilityHandler "github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers/create_default_availability"
	deactivateCouponHandler "github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers/deactivate_coupon"
	getAvailabilityHandler "github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers/get_availability"
	getAvailableSlotsHandler "github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers/get_booking"
	getClientBookingsHandler "github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers/get_client_bookings"
	getTherapistBookingsHandler "github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers/get_therapist_bookings"
	listCouponsHandler "github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers/list_coupons"
	updateAvailabilityHandler "github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers/update_availability"
	updateBookingPaymentHandler "github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers/update_booking_payment"
	updateBookingStatusHandler "github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers/update_booking_status"
	validateCouponHandler "github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers/validate_coupon"
	"github.com/m04kA/SMC-TherapyBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-TherapyBookingService/internal/config"
	"github.com/m04kA/SMC-TherapyBookingService/internal/infra/cache"
	"github.com/m04kA/SMC-TherapyBookingService/internal/infra/events"
	availabilityRepo "github.com/m04kA/SMC-TherapyBookingService/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/SMC-TherapyBookingService/internal/infra/storage/booking"
	couponRepo "github.com/m04kA/SMC-TherapyBookingService/internal/infra/storage/coupon"
	"github.com/m04kA/SMC-TherapyBookingService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-TherapyBookingService/internal/integrations/clientservice"
	availabilityService "github.com/m04kA/SMC-TherapyBookingService/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-TherapyBookingService/internal/service/bookings"
	couponsService "github.com/m04kA/SMC-TherapyBookingService/internal/service/coupons"
	checkSlotUC "github.com/m04kA/SMC-TherapyBookingService/internal/usecase/check_slot"
	createBookingUC "github.com/m04kA/SMC-TherapyBookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-TherapyBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/logger"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/metrics"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/txmanager"
)

// EventPublisher публикация событий с освобождением ресурсов при остановке
type EventPublisher interface {
	Publish(ctx context.Context, event events.BookingEvent) error
	Close() error
}

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-TherapyBookingService...")
	log.Info("Configuration loaded from %s (default time zone %s)", configPath, cfg.Booking.TimeZone)

	// Инициализируем метрики (если включены)
	// С nil-метриками обёртки работают без записи
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

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Database.DBName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Redis: кэш конфигураций доступности и rate limiting
	var (
		configCache availabilityService.ConfigCache = cache.NopCache{}
		redisClient *redis.Client
	)
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			// Кэш не обязателен: сервис продолжит работу напрямую с БД
			log.Warn("Redis is not reachable at %s: %v", cfg.Redis.Addr, err)
		}
		cancel()

		configCache = cache.NewAvailabilityCache(redisClient, cfg.Redis.CacheTTLDuration())
		log.Info("Redis cache enabled (addr=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.CacheTTL)
	}

	// Kafka: события бронирований для сервиса уведомлений
	var publisher EventPublisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaPublisher(
			cfg.Kafka.Brokers,
			cfg.Kafka.Topic,
			time.Duration(cfg.Kafka.WriteTimeout)*time.Second,
			log,
		)
		log.Info("Kafka publisher enabled (brokers=%v, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("Failed to close event publisher: %v", err)
		}
	}()

	// Инициализируем интеграционных клиентов
	catalogClient := catalogservice.NewClient(
		cfg.CatalogService.URL,
		cfg.CatalogService.TimeoutDuration(),
		cfg.CatalogService.BreakerMaxFailures,
		cfg.CatalogService.BreakerOpenDuration(),
		log,
	)
	clientDirectory := clientservice.NewClient(
		cfg.ClientService.URL,
		cfg.ClientService.TimeoutDuration(),
		cfg.ClientService.BreakerMaxFailures,
		cfg.ClientService.BreakerOpenDuration(),
		log,
	)
	log.Info("Integration clients initialized (CatalogService=%s, ClientService=%s)",
		cfg.CatalogService.URL, cfg.ClientService.URL)

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	availabilityRepository := availabilityRepo.NewRepository(wrappedDB)
	couponRepository := couponRepo.NewRepository(wrappedDB)

	clock := &createBookingUC.RealTimeProvider{}

	// Инициализируем сервисы
	availabilitySvc := availabilityService.NewService(
		availabilityRepository,
		configCache,
		metricsCollector,
		cfg.Booking.TimeZone,
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		txMgr,
		publisher,
		clock,
		log,
	)
	couponSvc := couponsService.NewService(couponRepository, clock, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		couponRepository,
		catalogClient,
		clientDirectory,
		publisher,
		metricsCollector,
		txMgr,
		clock,
		createBookingUC.Options{
			DefaultTimeZone:     cfg.Booking.TimeZone,
			PaymentLinkTemplate: cfg.Booking.PaymentLinkTemplate,
		},
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		availabilitySvc,
		catalogClient,
		clock,
		getAvailableSlotsUC.Options{
			DefaultStepMinutes: cfg.Booking.DefaultStepMinutes,
			MaxRangeDays:       cfg.Booking.MaxRangeDays,
		},
		log,
	)

	checkSlotUseCase := checkSlotUC.NewUseCase(
		bookingRepository,
		availabilitySvc,
		catalogClient,
		clock,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	checkSlot := checkSlotHandler.NewHandler(checkSlotUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(availabilitySvc, log)
	updateAvailability := updateAvailabilityHandler.NewHandler(availabilitySvc, log)
	createDefaultAvailability := createDefaultAvailabilityHandler.NewHandler(availabilitySvc, log)

	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	updateBookingPayment := updateBookingPaymentHandler.NewHandler(bookingSvc, log)
	getClientBookings := getClientBookingsHandler.NewHandler(bookingSvc, log)
	getTherapistBookings := getTherapistBookingsHandler.NewHandler(bookingSvc, log)

	createCoupon := createCouponHandler.NewHandler(couponSvc, log)
	listCoupons := listCouponsHandler.NewHandler(couponSvc, log)
	deactivateCoupon := deactivateCouponHandler.NewHandler(couponSvc, log)
	validateCoupon := validateCouponHandler.NewHandler(couponSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты терапевта для услуги
	api.HandleFunc("/therapists/{therapistId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Проверка конкретного времени
	api.HandleFunc("/therapists/{therapistId}/slot-check", checkSlot.Handle).Methods(http.MethodGet)

	// Расписание терапевта
	api.HandleFunc("/therapists/{therapistId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Предварительный расчёт скидки
	api.HandleFunc("/coupons/{code}/validate", validateCoupon.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID и X-User-Role)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования (с ограничением частоты, если включено)
	var createBookingEndpoint http.Handler = http.HandlerFunc(createBooking.Handle)
	if cfg.RateLimit.Enabled && redisClient != nil {
		counter := middleware.NewRedisCounter(redisClient, cfg.RateLimit.Window())
		createBookingEndpoint = middleware.RateLimit(counter, cfg.RateLimit.Requests, "rl:bookings", log)(createBookingEndpoint)
		log.Info("Rate limiting enabled for POST /bookings: %d requests per %ds",
			cfg.RateLimit.Requests, cfg.RateLimit.WindowSeconds)
	}
	protected.Handle("/bookings", createBookingEndpoint).Methods(http.MethodPost)

	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/payment", updateBookingPayment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/clients/{clientId}/bookings", getClientBookings.Handle).Methods(http.MethodGet)

	// --- Управление расписанием (терапевт, администратор) ---
	protected.HandleFunc("/therapists/{therapistId}/bookings", getTherapistBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/therapists/{therapistId}/availability", updateAvailability.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/therapists/{therapistId}/availability/default", createDefaultAvailability.Handle).Methods(http.MethodPost)

	// --- Купоны (администратор) ---
	protected.HandleFunc("/coupons", createCoupon.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/coupons", listCoupons.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/coupons/{couponId}/deactivate", deactivateCoupon.Handle).Methods(http.MethodPatch)

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

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
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
