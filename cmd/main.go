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

	attachAddonHandler "github.com/m04kA/SMC-BayBookingService/internal/api/handlers/attach_addon"
	cancelBookingHandler "github.com/m04kA/SMC-BayBookingService/internal/api/handlers/cancel_booking"
	cancelWaitlistHandler "github.com/m04kA/SMC-BayBookingService/internal/api/handlers/cancel_waitlist"
	convertWaitlistHandler "github.com/m04kA/SMC-BayBookingService/internal/api/handlers/convert_waitlist"
	createBookingHandler "github.com/m04kA/SMC-BayBookingService/internal/api/handlers/create_booking"
	createCarHandler "github.com/m04kA/SMC-BayBookingService/internal/api/handlers/create_car"
	deleteCarHandler "github.com/m04kA/SMC-BayBookingService/internal/api/handlers/delete_car"
	detachAddonHandler "github.com/m04kA/SMC-BayBookingService/internal/api/handlers/detach_addon"
	finishBookingHandler "github.com/m04kA/SMC-BayBookingService/internal/api/handlers/finish_booking"
	getBookingHandler "github.com/m04kA/SMC-BayBookingService/internal/api/handlers/get_booking"
	getBusySlotsHandler "github.com/m04kA/SMC-BayBookingService/internal/api/handlers/get_busy_slots"
	getWaitlistHandler "github.com/m04kA/SMC-BayBookingService/internal/api/handlers/get_waitlist"
	listBaysHandler "github.com/m04kA/SMC-BayBookingService/internal/api/handlers/list_bays"
	listBookingsHandler "github.com/m04kA/SMC-BayBookingService/internal/api/handlers/list_bookings"
	listCarsHandler "github.com/m04kA/SMC-BayBookingService/internal/api/handlers/list_cars"
	listServicesHandler "github.com/m04kA/SMC-BayBookingService/internal/api/handlers/list_services"
	listWaitlistHandler "github.com/m04kA/SMC-BayBookingService/internal/api/handlers/list_waitlist"
	moveBookingHandler "github.com/m04kA/SMC-BayBookingService/internal/api/handlers/move_booking"
	payBookingHandler "github.com/m04kA/SMC-BayBookingService/internal/api/handlers/pay_booking"
	setBayStateHandler "github.com/m04kA/SMC-BayBookingService/internal/api/handlers/set_bay_state"
	startBookingHandler "github.com/m04kA/SMC-BayBookingService/internal/api/handlers/start_booking"
	"github.com/m04kA/SMC-BayBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-BayBookingService/internal/config"
	"github.com/m04kA/SMC-BayBookingService/internal/infra/notify"
	bayRepo "github.com/m04kA/SMC-BayBookingService/internal/infra/storage/bay"
	bookingRepo "github.com/m04kA/SMC-BayBookingService/internal/infra/storage/booking"
	carRepo "github.com/m04kA/SMC-BayBookingService/internal/infra/storage/car"
	catalogRepo "github.com/m04kA/SMC-BayBookingService/internal/infra/storage/catalog"
	waitlistRepo "github.com/m04kA/SMC-BayBookingService/internal/infra/storage/waitlist"
	baysService "github.com/m04kA/SMC-BayBookingService/internal/service/bays"
	bookingsService "github.com/m04kA/SMC-BayBookingService/internal/service/bookings"
	capacityService "github.com/m04kA/SMC-BayBookingService/internal/service/capacity"
	carsService "github.com/m04kA/SMC-BayBookingService/internal/service/cars"
	conflictsService "github.com/m04kA/SMC-BayBookingService/internal/service/conflicts"
	housekeepingService "github.com/m04kA/SMC-BayBookingService/internal/service/housekeeping"
	waitlistService "github.com/m04kA/SMC-BayBookingService/internal/service/waitlist"
	attachAddonUC "github.com/m04kA/SMC-BayBookingService/internal/usecase/attach_addon"
	confirmPaymentUC "github.com/m04kA/SMC-BayBookingService/internal/usecase/confirm_payment"
	convertWaitlistUC "github.com/m04kA/SMC-BayBookingService/internal/usecase/convert_waitlist"
	createBookingUC "github.com/m04kA/SMC-BayBookingService/internal/usecase/create_booking"
	getBusySlotsUC "github.com/m04kA/SMC-BayBookingService/internal/usecase/get_busy_slots"
	moveBookingUC "github.com/m04kA/SMC-BayBookingService/internal/usecase/move_booking"
	"github.com/m04kA/SMC-BayBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BayBookingService/pkg/logger"
	"github.com/m04kA/SMC-BayBookingService/pkg/metrics"
	"github.com/m04kA/SMC-BayBookingService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-BayBookingService/pkg/txmanager"
)

// systemClock реальное время для сервисов
type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
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

	log.Info("Starting SMC-BayBookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Инициализируем нотификатор изменений боксов
	var notifier notify.Notifier
	if cfg.Notifier.KafkaEnabled {
		kafkaNotifier, err := notify.NewKafkaNotifier(cfg.Notifier.Brokers, cfg.Notifier.Topic, log)
		if err != nil {
			log.Fatal("Failed to initialize Kafka notifier: %v", err)
		}
		defer kafkaNotifier.Close()
		notifier = kafkaNotifier
		log.Info("Kafka notifier initialized (brokers=%v, topic=%s)",
			cfg.Notifier.Brokers, cfg.Notifier.Topic)
	} else {
		notifier = notify.NewLogNotifier(log)
		log.Info("Kafka disabled, bay change events go to log only")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		bayRepository      *bayRepo.Repository
		catalogRepository  *catalogRepo.Repository
		carRepository      *carRepo.Repository
		waitlistRepository *waitlistRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		bayRepository = bayRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		carRepository = carRepo.NewRepository(wrappedDB)
		waitlistRepository = waitlistRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		bayRepository = bayRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		carRepository = carRepo.NewRepository(db)
		waitlistRepository = waitlistRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	clock := systemClock{}

	// Инициализируем сервисы
	housekeepingSvc := housekeepingService.NewService(bookingRepository, notifier, clock, log)
	conflictsSvc := conflictsService.NewService(bookingRepository, clock, log)
	capacitySvc := capacityService.NewService(bayRepository, log)
	waitlistSvc := waitlistService.NewService(waitlistRepository, log)
	baysSvc := baysService.NewService(bayRepository, notifier, clock, log)
	carsSvc := carsService.NewService(carRepository, bookingRepository, clock, log)
	bookingsSvc := bookingsService.NewService(
		bookingRepository,
		capacitySvc,
		housekeepingSvc,
		notifier,
		clock,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		carRepository,
		conflictsSvc,
		capacitySvc,
		waitlistSvc,
		housekeepingSvc,
		txMgr,
		notifier,
		createBookingUC.Config{
			PaymentHoldMinutes: cfg.Booking.PaymentHoldMinutes,
			DefaultBufferMin:   cfg.Booking.DefaultBufferMin,
		},
		log,
	)
	confirmPaymentUseCase := confirmPaymentUC.NewUseCase(bookingRepository, housekeepingSvc, notifier, log)
	moveBookingUseCase := moveBookingUC.NewUseCase(
		bookingRepository,
		conflictsSvc,
		capacitySvc,
		housekeepingSvc,
		txMgr,
		notifier,
		log,
	)
	attachAddonUseCase := attachAddonUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		conflictsSvc,
		housekeepingSvc,
		txMgr,
		notifier,
		log,
	)
	convertWaitlistUseCase := convertWaitlistUC.NewUseCase(
		bookingRepository,
		waitlistRepository,
		catalogRepository,
		conflictsSvc,
		capacitySvc,
		housekeepingSvc,
		txMgr,
		notifier,
		convertWaitlistUC.Config{DefaultBufferMin: cfg.Booking.DefaultBufferMin},
		log,
	)
	getBusySlotsUseCase := getBusySlotsUC.NewUseCase(bookingRepository, housekeepingSvc, log)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingsSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingsSvc, log)
	payBooking := payBookingHandler.NewHandler(confirmPaymentUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingsSvc, log)
	moveBooking := moveBookingHandler.NewHandler(moveBookingUseCase, log)
	startBooking := startBookingHandler.NewHandler(bookingsSvc, log)
	finishBooking := finishBookingHandler.NewHandler(bookingsSvc, log)
	attachAddon := attachAddonHandler.NewHandler(attachAddonUseCase, log)
	detachAddon := detachAddonHandler.NewHandler(bookingsSvc, log)
	getBusySlots := getBusySlotsHandler.NewHandler(getBusySlotsUseCase, log)
	listBays := listBaysHandler.NewHandler(baysSvc, log)
	listServices := listServicesHandler.NewHandler(catalogRepository, log)
	setBayState := setBayStateHandler.NewHandler(baysSvc, log)
	listWaitlist := listWaitlistHandler.NewHandler(waitlistSvc, log)
	getWaitlist := getWaitlistHandler.NewHandler(waitlistSvc, log)
	cancelWaitlist := cancelWaitlistHandler.NewHandler(waitlistSvc, log)
	convertWaitlist := convertWaitlistHandler.NewHandler(convertWaitlistUseCase, log)
	createCar := createCarHandler.NewHandler(carsSvc, log)
	listCars := listCarsHandler.NewHandler(carsSvc, log)
	deleteCar := deleteCarHandler.NewHandler(carsSvc, log)

	// Фоновая уборка статусов: просроченные оплаты и истекшие брони
	housekeepingCtx, stopHousekeeping := context.WithCancel(context.Background())
	go func() {
		interval := time.Duration(cfg.Housekeeping.IntervalSeconds) * time.Second
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info("Housekeeping loop started (interval=%s)", interval)
		for {
			select {
			case <-housekeepingCtx.Done():
				log.Info("Housekeeping loop stopped")
				return
			case <-ticker.C:
				if err := housekeepingSvc.Run(housekeepingCtx); err != nil {
					log.Error("Housekeeping run failed: %v", err)
				}
			}
		}
	}()

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без идентификации клиента)
	// ============================================================

	// Занятые слоты бокса
	api.HandleFunc("/locations/{locationId}/bays/{bayNumber}/busy-slots",
		getBusySlots.Handle).Methods(http.MethodGet)

	// Боксы локации
	api.HandleFunc("/locations/{locationId}/bays", listBays.Handle).Methods(http.MethodGet)

	// Каталог услуг локации
	api.HandleFunc("/locations/{locationId}/services", listServices.Handle).Methods(http.MethodGet)

	// ============================================================
	// STAFF ROUTES (операции персонала, без привязки к клиенту)
	// ============================================================

	// Перенос брони
	api.HandleFunc("/bookings/{bookingId}/move", moveBooking.Handle).Methods(http.MethodPatch)

	// Начало и завершение обслуживания
	api.HandleFunc("/bookings/{bookingId}/start", startBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}/finish", finishBooking.Handle).Methods(http.MethodPost)

	// Открытие/закрытие бокса
	api.HandleFunc("/locations/{locationId}/bays/{bayNumber}/state",
		setBayState.Handle).Methods(http.MethodPut)

	// Конвертация заявки листа ожидания в бронь
	api.HandleFunc("/waitlist/{requestId}/convert", convertWaitlist.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Client-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/pay", payBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// --- Допуслуги ---
	protected.HandleFunc("/bookings/{bookingId}/addons", attachAddon.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/addons/{serviceId}",
		detachAddon.Handle).Methods(http.MethodDelete)

	// --- Лист ожидания ---
	protected.HandleFunc("/waitlist", listWaitlist.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/waitlist/{requestId}", getWaitlist.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/waitlist/{requestId}/cancel", cancelWaitlist.Handle).Methods(http.MethodPatch)

	// --- Автомобили ---
	protected.HandleFunc("/cars", createCar.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/cars", listCars.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/cars/{carId}", deleteCar.Handle).Methods(http.MethodDelete)

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

	// Останавливаем фоновую уборку
	stopHousekeeping()

	// Останавливаем сбор метрик connection pool
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
