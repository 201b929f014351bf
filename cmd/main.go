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

	cancelBookingHandler "github.com/pilotnikovk/tg-bot-zapis/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/pilotnikovk/tg-bot-zapis/internal/api/handlers/create_booking"
	createTimeBlockHandler "github.com/pilotnikovk/tg-bot-zapis/internal/api/handlers/create_time_block"
	deleteTimeBlockHandler "github.com/pilotnikovk/tg-bot-zapis/internal/api/handlers/delete_time_block"
	getAvailableSlotsHandler "github.com/pilotnikovk/tg-bot-zapis/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/pilotnikovk/tg-bot-zapis/internal/api/handlers/get_booking"
	getMasterBookingsHandler "github.com/pilotnikovk/tg-bot-zapis/internal/api/handlers/get_master_bookings"
	getServiceHandler "github.com/pilotnikovk/tg-bot-zapis/internal/api/handlers/get_service"
	getUserBookingsHandler "github.com/pilotnikovk/tg-bot-zapis/internal/api/handlers/get_user_bookings"
	getWorkScheduleHandler "github.com/pilotnikovk/tg-bot-zapis/internal/api/handlers/get_work_schedule"
	listServicesHandler "github.com/pilotnikovk/tg-bot-zapis/internal/api/handlers/list_services"
	listTimeBlocksHandler "github.com/pilotnikovk/tg-bot-zapis/internal/api/handlers/list_time_blocks"
	updateBookingStatusHandler "github.com/pilotnikovk/tg-bot-zapis/internal/api/handlers/update_booking_status"
	updateWorkScheduleHandler "github.com/pilotnikovk/tg-bot-zapis/internal/api/handlers/update_work_schedule"
	"github.com/pilotnikovk/tg-bot-zapis/internal/api/middleware"
	"github.com/pilotnikovk/tg-bot-zapis/internal/config"
	bookingRepo "github.com/pilotnikovk/tg-bot-zapis/internal/infra/storage/booking"
	masterRepo "github.com/pilotnikovk/tg-bot-zapis/internal/infra/storage/master"
	serviceRepo "github.com/pilotnikovk/tg-bot-zapis/internal/infra/storage/service"
	timeblockRepo "github.com/pilotnikovk/tg-bot-zapis/internal/infra/storage/timeblock"
	bookingsService "github.com/pilotnikovk/tg-bot-zapis/internal/service/bookings"
	catalogService "github.com/pilotnikovk/tg-bot-zapis/internal/service/catalog"
	scheduleService "github.com/pilotnikovk/tg-bot-zapis/internal/service/schedule"
	createBookingUC "github.com/pilotnikovk/tg-bot-zapis/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/pilotnikovk/tg-bot-zapis/internal/usecase/get_available_slots"
	"github.com/pilotnikovk/tg-bot-zapis/pkg/logger"
	"github.com/pilotnikovk/tg-bot-zapis/pkg/metrics"
	"github.com/pilotnikovk/tg-bot-zapis/pkg/txmanager"
)

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

	log.Info("Starting booking service...")
	log.Info("Configuration loaded from config.toml")

	// Часовой пояс салона: все расчёты слотов выполняются в нём
	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Failed to load salon timezone: %v", err)
	}
	log.Info("Salon timezone: %s, slot granularity: %d min", location, cfg.Booking.SlotGranularityMinutes)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
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

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(db)
	serviceRepository := serviceRepo.NewRepository(db)
	masterRepository := masterRepo.NewRepository(db)
	timeBlockRepository := timeblockRepo.NewRepository(db)

	// Менеджер сериализуемых транзакций для создания записей
	txMgr := txmanager.NewTransactionManager(db)
	if cfg.Metrics.Enabled {
		txMgr.OnRetry(func() { metricsCollector.TxSerializationRetries.Inc() })
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, masterRepository, log)
	catalogSvc := catalogService.NewService(serviceRepository, log)
	scheduleSvc := scheduleService.NewService(timeBlockRepository, masterRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		timeBlockRepository,
		serviceRepository,
		masterRepository,
		txMgr,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		timeBlockRepository,
		serviceRepository,
		masterRepository,
		cfg.Booking.SlotGranularityMinutes,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, location, metricsCollector, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, location, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, metricsCollector, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getMasterBookings := getMasterBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	getService := getServiceHandler.NewHandler(catalogSvc, log)
	createTimeBlock := createTimeBlockHandler.NewHandler(scheduleSvc, log)
	listTimeBlocks := listTimeBlocksHandler.NewHandler(scheduleSvc, log)
	deleteTimeBlock := deleteTimeBlockHandler.NewHandler(scheduleSvc, log)
	getWorkSchedule := getWorkScheduleHandler.NewHandler(scheduleSvc, log)
	updateWorkSchedule := updateWorkScheduleHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Каталог услуг
	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services/{serviceId}", getService.Handle).Methods(http.MethodGet)

	// Доступные слоты для записи
	api.HandleFunc("/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Расписание мастера
	api.HandleFunc("/masters/{masterId}/schedule", getWorkSchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// --- Управление расписанием (для администраторов) ---
	protected.HandleFunc("/masters/{masterId}/bookings", getMasterBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/masters/{masterId}/schedule", updateWorkSchedule.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/masters/{masterId}/time-blocks", createTimeBlock.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/masters/{masterId}/time-blocks", listTimeBlocks.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/time-blocks/{blockId}", deleteTimeBlock.Handle).Methods(http.MethodDelete)

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
