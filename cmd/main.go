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

	cancelBookingHandler "github.com/m04kA/Barber-BookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/Barber-BookingService/internal/api/handlers/create_booking"
	createCheckoutHandler "github.com/m04kA/Barber-BookingService/internal/api/handlers/create_checkout"
	getBookingHandler "github.com/m04kA/Barber-BookingService/internal/api/handlers/get_booking"
	getOccupiedSlotsHandler "github.com/m04kA/Barber-BookingService/internal/api/handlers/get_occupied_slots"
	getUserBookingsHandler "github.com/m04kA/Barber-BookingService/internal/api/handlers/get_user_bookings"
	paymentWebhookHandler "github.com/m04kA/Barber-BookingService/internal/api/handlers/payment_webhook"
	"github.com/m04kA/Barber-BookingService/internal/api/middleware"
	"github.com/m04kA/Barber-BookingService/internal/config"
	bookingRepo "github.com/m04kA/Barber-BookingService/internal/infra/storage/booking"
	eventRepo "github.com/m04kA/Barber-BookingService/internal/infra/storage/event"
	authServiceClient "github.com/m04kA/Barber-BookingService/internal/integrations/authservice"
	catalogServiceClient "github.com/m04kA/Barber-BookingService/internal/integrations/catalogservice"
	paymentServiceClient "github.com/m04kA/Barber-BookingService/internal/integrations/paymentservice"
	bookingsService "github.com/m04kA/Barber-BookingService/internal/service/bookings"
	confirmPaymentUC "github.com/m04kA/Barber-BookingService/internal/usecase/confirm_payment"
	createBookingUC "github.com/m04kA/Barber-BookingService/internal/usecase/create_booking"
	createCheckoutUC "github.com/m04kA/Barber-BookingService/internal/usecase/create_checkout"
	getOccupiedSlotsUC "github.com/m04kA/Barber-BookingService/internal/usecase/get_occupied_slots"
	"github.com/m04kA/Barber-BookingService/pkg/dbmetrics"
	"github.com/m04kA/Barber-BookingService/pkg/logger"
	"github.com/m04kA/Barber-BookingService/pkg/metrics"
	"github.com/m04kA/Barber-BookingService/pkg/simpletxmanager"
	"github.com/m04kA/Barber-BookingService/pkg/timeslot"
	"github.com/m04kA/Barber-BookingService/pkg/txmanager"
)

func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting Barber-BookingService...")
	log.Info("Configuration loaded from config.toml")

	openTime, err := timeslot.NewTimeStringFromString(cfg.Booking.OpenTime)
	if err != nil {
		log.Fatal("Invalid booking.open_time %q: %v", cfg.Booking.OpenTime, err)
	}
	closeTime, err := timeslot.NewTimeStringFromString(cfg.Booking.CloseTime)
	if err != nil {
		log.Fatal("Invalid booking.close_time %q: %v", cfg.Booking.CloseTime, err)
	}

	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

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

	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	paymentClient := paymentServiceClient.NewClient(
		cfg.PaymentService.URL,
		cfg.PaymentService.SecretKey,
		time.Duration(cfg.PaymentService.Timeout)*time.Second,
		log,
	)
	webhookVerifier := paymentServiceClient.NewWebhookVerifier(cfg.PaymentService.WebhookSecret)
	tokenVerifier := authServiceClient.NewVerifier(cfg.Auth.JWTSecret)
	log.Info("Integration clients initialized (CatalogService=%s timeout=%ds, PaymentService=%s timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout, cfg.PaymentService.URL, cfg.PaymentService.Timeout)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}

	var (
		bookingRepository *bookingRepo.Repository
		eventRepository   *eventRepo.Repository
		txMgr             TxManager
		bizMetrics        businessMetrics
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		eventRepository = eventRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
		bizMetrics = metricsCollector
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		eventRepository = eventRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
		bizMetrics = noopMetrics{}
	}

	bookingSvc := bookingsService.NewService(bookingRepository, bizMetrics, log)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		catalogClient,
		txMgr,
		bizMetrics,
		log,
	)
	createCheckoutUseCase := createCheckoutUC.NewUseCase(
		bookingRepository,
		catalogClient,
		paymentClient,
		createCheckoutUC.Config{
			SuccessURL: cfg.PaymentService.SuccessURL,
			CancelURL:  cfg.PaymentService.CancelURL,
			Currency:   cfg.PaymentService.Currency,
		},
		bizMetrics,
		log,
	)
	confirmPaymentUseCase := confirmPaymentUC.NewUseCase(
		bookingRepository,
		eventRepository,
		catalogClient,
		txMgr,
		bizMetrics,
		log,
	)
	getOccupiedSlotsUseCase := getOccupiedSlotsUC.NewUseCase(
		bookingRepository,
		catalogClient,
		getOccupiedSlotsUC.Config{
			OpenTime:    openTime,
			CloseTime:   closeTime,
			StepMinutes: cfg.Booking.SlotDurationMinutes,
		},
		log,
	)

	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	createCheckout := createCheckoutHandler.NewHandler(createCheckoutUseCase, log)
	paymentWebhook := paymentWebhookHandler.NewHandler(confirmPaymentUseCase, webhookVerifier, bizMetrics, log)
	getOccupiedSlots := getOccupiedSlotsHandler.NewHandler(getOccupiedSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)

	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Публичные маршруты. Занятость слотов богаче для вошедших
	// пользователей, поэтому токен резолвится, когда он есть
	public := api.PathPrefix("").Subrouter()
	public.Use(middleware.OptionalAuth(tokenVerifier, log))
	public.HandleFunc("/bookings/occupied-slots", getOccupiedSlots.Handle).Methods(http.MethodGet)

	// Вебхук аутентифицируется подписью, а не сессией
	api.HandleFunc("/payments/webhook", paymentWebhook.Handle).Methods(http.MethodPost)

	// Защищённые маршруты
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(tokenVerifier, log))

	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/users/me/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/payments/checkout", createCheckout.Handle).Methods(http.MethodPost)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

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

	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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

// businessMetrics объединение бизнес счётчиков, в которые отчитываются
// хендлеры, сервисы и use case
type businessMetrics interface {
	BookingCreated(source string)
	BookingCancelled()
	ConfirmationDropped(reason string)
	CheckoutSessionCreated(status string)
	WebhookEventReceived(outcome string)
}

// noopMetrics реализует businessMetrics при выключенных метриках
type noopMetrics struct{}

func (noopMetrics) BookingCreated(string)         {}
func (noopMetrics) BookingCancelled()             {}
func (noopMetrics) ConfirmationDropped(string)    {}
func (noopMetrics) CheckoutSessionCreated(string) {}
func (noopMetrics) WebhookEventReceived(string)   {}
