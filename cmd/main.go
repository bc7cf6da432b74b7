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

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-CoachBookingService/internal/analytics"
	"github.com/m04kA/SMC-CoachBookingService/internal/api/handlers"
	checkoutHandler "github.com/m04kA/SMC-CoachBookingService/internal/api/handlers/checkout"
	confirmIntentHandler "github.com/m04kA/SMC-CoachBookingService/internal/api/handlers/confirm_intent"
	createIntentHandler "github.com/m04kA/SMC-CoachBookingService/internal/api/handlers/create_intent"
	getAnalyticsSummaryHandler "github.com/m04kA/SMC-CoachBookingService/internal/api/handlers/get_analytics_summary"
	getAvailableSlotsHandler "github.com/m04kA/SMC-CoachBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-CoachBookingService/internal/api/handlers/get_booking"
	getPaymentIntentHandler "github.com/m04kA/SMC-CoachBookingService/internal/api/handlers/get_payment_intent"
	healthHandler "github.com/m04kA/SMC-CoachBookingService/internal/api/handlers/health"
	listBookingsHandler "github.com/m04kA/SMC-CoachBookingService/internal/api/handlers/list_bookings"
	listNotificationsHandler "github.com/m04kA/SMC-CoachBookingService/internal/api/handlers/list_notifications"
	paymentWebhookHandler "github.com/m04kA/SMC-CoachBookingService/internal/api/handlers/payment_webhook"
	processPaymentHandler "github.com/m04kA/SMC-CoachBookingService/internal/api/handlers/process_payment"
	streamNotificationsHandler "github.com/m04kA/SMC-CoachBookingService/internal/api/handlers/stream_notifications"
	updateBookingStatusHandler "github.com/m04kA/SMC-CoachBookingService/internal/api/handlers/update_booking_status"
	"github.com/m04kA/SMC-CoachBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-CoachBookingService/internal/checkout/validator"
	"github.com/m04kA/SMC-CoachBookingService/internal/config"
	"github.com/m04kA/SMC-CoachBookingService/internal/infra/cache/idempotency"
	"github.com/m04kA/SMC-CoachBookingService/internal/infra/cache/sessions"
	bookingRepo "github.com/m04kA/SMC-CoachBookingService/internal/infra/storage/booking"
	paymentEventRepo "github.com/m04kA/SMC-CoachBookingService/internal/infra/storage/payment_event"
	paymentIntentRepo "github.com/m04kA/SMC-CoachBookingService/internal/infra/storage/payment_intent"
	coachServiceClient "github.com/m04kA/SMC-CoachBookingService/internal/integrations/coachservice"
	"github.com/m04kA/SMC-CoachBookingService/internal/integrations/processor"
	"github.com/m04kA/SMC-CoachBookingService/internal/notifications"
	bookingsService "github.com/m04kA/SMC-CoachBookingService/internal/service/bookings"
	paymentsService "github.com/m04kA/SMC-CoachBookingService/internal/service/payments"
	pricingService "github.com/m04kA/SMC-CoachBookingService/internal/service/pricing"
	checkoutUC "github.com/m04kA/SMC-CoachBookingService/internal/usecase/checkout"
	finalizeBookingUC "github.com/m04kA/SMC-CoachBookingService/internal/usecase/finalize_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-CoachBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-CoachBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CoachBookingService/pkg/logger"
	"github.com/m04kA/SMC-CoachBookingService/pkg/metrics"
	"github.com/m04kA/SMC-CoachBookingService/pkg/migrator"
	"github.com/m04kA/SMC-CoachBookingService/pkg/txmanager"
)

func main() {
	configPath := "config.toml"
	if p := os.Getenv("BOOKING_CONFIG"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level, cfg.Logs.Encoding)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-CoachBookingService...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
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

	if cfg.Database.MigrationsPath != "" {
		if err := migrator.Up(db, cfg.Database.MigrationsPath); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Migrations applied from %s", cfg.Database.MigrationsPath)
	}

	// Без включенных метрик обёртка только пробрасывает запросы
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	// Подключаемся к Redis (сессии оформления и ключи идемпотентности)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		pingCancel()
		log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
	}
	pingCancel()
	log.Info("Successfully connected to redis (addr=%s)", cfg.Redis.Addr)

	// Уведомления: в памяти процесса и, если включено, копия в RabbitMQ
	var notificationStore notifications.Store = notifications.NewMemory(0)
	if cfg.RabbitMQ.Enabled {
		rabbit, err := notifications.NewRabbitPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		defer rabbit.Close()

		notificationStore = notifications.NewTee(notificationStore, rabbit, log)
		log.Info("Notifications mirrored to RabbitMQ exchange=%s", cfg.RabbitMQ.Exchange)
	}

	// Инициализируем интеграционных клиентов
	coachClient := coachServiceClient.NewClient(
		cfg.CoachService.URL,
		time.Duration(cfg.CoachService.Timeout)*time.Second,
		log,
	)
	paymentProcessor := processor.NewBreaker(processor.NewMock(), processor.BreakerSettings{
		MaxFailures:   cfg.Payments.BreakerMaxFailures,
		OpenTimeout:   time.Duration(cfg.Payments.BreakerOpenTimeout) * time.Second,
		HalfOpenProbe: cfg.Payments.BreakerHalfOpenProbe,
		CallTimeout:   time.Duration(cfg.Payments.ProcessorTimeout) * time.Second,
	}, log)
	log.Info("Integration clients initialized (CoachService=%s timeout=%ds, processor=mock)",
		cfg.CoachService.URL, cfg.CoachService.Timeout)

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	intentRepository := paymentIntentRepo.NewRepository(wrappedDB)
	eventRepository := paymentEventRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	sessionStore := sessions.NewStore(redisClient, time.Duration(cfg.Checkout.SessionTTL)*time.Second)
	idempotencyStore := idempotency.NewStore(redisClient, time.Duration(cfg.Payments.IdempotencyTTL)*time.Second)

	// Инициализируем сервисы
	pricingSvc := pricingService.NewService(pricingService.Config{
		DefaultSessionPrice: cfg.Pricing.DefaultSessionPrice,
		SetupFee:            cfg.Pricing.SetupFee,
		TaxRate:             cfg.Pricing.TaxRate,
		Currency:            cfg.Pricing.Currency,
	}, log)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		notificationStore,
		log,
	)
	paymentSvc := paymentsService.NewService(
		intentRepository,
		eventRepository,
		bookingRepository,
		idempotencyStore,
		paymentProcessor,
		notificationStore,
		metricsCollector,
		paymentsService.RealTimeProvider{},
		log,
	)

	analyticsProvider, err := analytics.New(cfg.Analytics.Provider, bookingRepository, cfg.Pricing.Currency)
	if err != nil {
		log.Fatal("Failed to initialize analytics: %v", err)
	}

	// Инициализируем use cases
	finalizeBookingUseCase := finalizeBookingUC.NewUseCase(
		bookingRepository,
		notificationStore,
		metricsCollector,
		txMgr,
		log,
	)
	checkoutUseCase := checkoutUC.NewUseCase(
		sessionStore,
		validator.New(&validator.RealTimeProvider{}),
		pricingSvc,
		coachClient,
		paymentSvc,
		finalizeBookingUseCase,
		metricsCollector,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		coachClient,
		log,
	)

	// Инициализируем handlers
	health := healthHandler.NewHandler(cfg.Server.Environment, map[string]healthHandler.Pinger{
		"postgres": wrappedDB,
		"redis":    healthHandler.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }),
	}, log)
	createIntent := createIntentHandler.NewHandler(paymentSvc, log)
	confirmIntent := confirmIntentHandler.NewHandler(paymentSvc, log)
	processPayment := processPaymentHandler.NewHandler(paymentSvc, log)
	paymentWebhook := paymentWebhookHandler.NewHandler(paymentSvc, log)
	getPaymentIntent := getPaymentIntentHandler.NewHandler(paymentSvc, log)
	checkout := checkoutHandler.NewHandler(checkoutUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	listNotifications := listNotificationsHandler.NewHandler(notificationStore, log)
	streamNotifications := streamNotificationsHandler.NewHandler(notificationStore, log)
	getAnalyticsSummary := getAnalyticsSummaryHandler.NewHandler(analyticsProvider, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	mws := []mux.MiddlewareFunc{middleware.Recovery(log)}
	if cfg.Metrics.Enabled {
		mws = append(mws, middleware.MetricsMiddleware(metricsCollector))
	}
	r.Use(mws...)
	r.NotFoundHandler = middleware.Chain(handlers.NotFoundHandler(), mws...)
	r.MethodNotAllowedHandler = middleware.Chain(handlers.MethodNotAllowedHandler(), mws...)

	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	// --- Платежи ---
	pay := r.PathPrefix("/api/payments").Subrouter()
	pay.HandleFunc("/create-intent", createIntent.Handle).Methods(http.MethodPost)
	pay.HandleFunc("/confirm", confirmIntent.Handle).Methods(http.MethodPost)
	pay.HandleFunc("/process", processPayment.Handle).Methods(http.MethodPost)
	pay.HandleFunc("/webhook", paymentWebhook.Handle).Methods(http.MethodPost)
	pay.HandleFunc("/{paymentIntentId}", getPaymentIntent.Handle).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Оформление бронирования ---
	api.HandleFunc("/checkout/sessions", checkout.Start).Methods(http.MethodPost)
	api.HandleFunc("/checkout/sessions/{sessionId}", checkout.Get).Methods(http.MethodGet)
	api.HandleFunc("/checkout/sessions/{sessionId}/fields", checkout.SetField).Methods(http.MethodPut)
	api.HandleFunc("/checkout/sessions/{sessionId}/next", checkout.Next).Methods(http.MethodPost)
	api.HandleFunc("/checkout/sessions/{sessionId}/previous", checkout.Previous).Methods(http.MethodPost)
	api.HandleFunc("/checkout/sessions/{sessionId}/quote", checkout.Quote).Methods(http.MethodGet)
	api.HandleFunc("/checkout/sessions/{sessionId}/submit", checkout.Submit).Methods(http.MethodPost)
	api.HandleFunc("/checkout/sessions/{sessionId}/complete", checkout.Complete).Methods(http.MethodPost)

	// --- Бронирования ---
	api.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/coaches/{coachId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// --- Дашборды ---
	api.HandleFunc("/notifications", listNotifications.Handle).Methods(http.MethodGet)
	api.HandleFunc("/notifications/stream", streamNotifications.Handle).Methods(http.MethodGet)
	api.HandleFunc("/analytics/summary", getAnalyticsSummary.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s (environment=%s)", addr, cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
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
