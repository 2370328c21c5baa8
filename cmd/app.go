package main

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SlotService/internal/config"
	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/internal/infra/broker"
	bookingRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/booking"
	calendarAccountRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/calendaraccount"
	eventTypeRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/eventtype"
	selectedSlotRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/selectedslot"
	"github.com/m04kA/SMC-SlotService/internal/infra/storage/slotredis"
	calendlyClient "github.com/m04kA/SMC-SlotService/internal/integrations/calendly"
	googleCalClient "github.com/m04kA/SMC-SlotService/internal/integrations/googlecal"
	slotsService "github.com/m04kA/SMC-SlotService/internal/service/slots"
	getBusyTimesUC "github.com/m04kA/SMC-SlotService/internal/usecase/get_busy_times"
	"github.com/m04kA/SMC-SlotService/pkg/credcrypto"
	"github.com/m04kA/SMC-SlotService/pkg/logger"
	"github.com/m04kA/SMC-SlotService/pkg/metrics"
)

// holdStore хранилище удержаний: запись для сервиса слотов, чтение для агрегатора
type holdStore interface {
	slotsService.HoldStore
	getBusyTimesUC.HoldStore
}

// slotPublisher публикатор событий слотов
type slotPublisher interface {
	slotsService.EventPublisher
	Close() error
}

type nopCloser struct {
	broker.NopPublisher
}

func (nopCloser) Close() error { return nil }

// app собранные зависимости сервиса
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	db        *sql.DB
	redis     *redis.Client
	publisher slotPublisher
	metrics   *metrics.Metrics

	slots    *slotsService.Service
	busyTime *getBusyTimesUC.UseCase
}

// newApp подключается к хранилищам и собирает сервисы
func newApp(cfg *config.Config, log *logger.Logger, withPublisher bool) (*app, error) {
	a := &app{cfg: cfg, log: log}

	// Метрики (если включены)
	if cfg.Metrics.Enabled {
		a.metrics = metrics.New(cfg.Metrics.ServiceName, prometheus.DefaultRegisterer)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a.db = db

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Metrics.Enabled {
		prometheus.MustRegister(collectors.NewDBStatsCollector(db, cfg.Database.DBName))
		log.Info("Database metrics collection started")
	}

	// Хранилище удержаний
	var holds holdStore
	switch cfg.Slots.Backend {
	case config.HoldBackendRedis:
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		holds = slotredis.NewStore(a.redis)
		log.Info("Slot holds stored in redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)
	default:
		holds = selectedSlotRepo.NewRepository(db)
		log.Info("Slot holds stored in postgres")
	}

	// Публикация событий
	a.publisher = nopCloser{}
	if withPublisher && cfg.RabbitMQ.Enabled {
		publisher, err := broker.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		a.publisher = publisher
		log.Info("Slot events published to exchange %s", cfg.RabbitMQ.Exchange)
	}

	// Репозитории
	eventTypes := eventTypeRepo.NewRepository(db)
	bookings := bookingRepo.NewRepository(db)
	accounts := calendarAccountRepo.NewRepository(db)

	// Клиенты календарей
	fetchers := make(map[domain.CalendarProvider]getBusyTimesUC.BusyTimeFetcher)
	if cfg.Security.EncryptionKey == "" {
		log.Warn("Encryption key is not configured, external calendars are disabled")
	} else {
		cipher, err := credcrypto.New(cfg.Security.EncryptionKey)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to init credential cipher: %w", err)
		}
		fetchers[domain.ProviderCalendly] = calendlyClient.NewClient(
			cfg.Calendly.BaseURL,
			time.Duration(cfg.Calendly.Timeout)*time.Second,
			cipher,
			log,
		)
		fetchers[domain.ProviderGoogle] = googleCalClient.NewClient(
			cfg.Google.Endpoint,
			time.Duration(cfg.Google.Timeout)*time.Second,
			cipher,
			log,
		)
		log.Info("Calendar clients initialized (Calendly=%s timeout=%ds, Google timeout=%ds)",
			cfg.Calendly.BaseURL, cfg.Calendly.Timeout, cfg.Google.Timeout)
	}

	// Сервисы и use cases
	a.slots = slotsService.NewService(
		eventTypes,
		bookings,
		holds,
		a.publisher,
		a.metrics,
		log,
		slotsService.Config{
			HoldWriteTimeout: cfg.Slots.HoldWriteTimeout(),
			HoldTTL:          cfg.Slots.HoldTTL(),
		},
	)

	a.busyTime = getBusyTimesUC.NewUseCase(
		accounts,
		fetchers,
		holds,
		a.metrics,
		log,
		getBusyTimesUC.Config{
			Lookahead:  cfg.Availability.Lookahead(),
			WindowDays: cfg.Availability.WindowDays,
		},
	)

	return a, nil
}

// Close освобождает соединения
func (a *app) Close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Error("Failed to close publisher: %v", err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Error("Failed to close redis: %v", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Error("Failed to close database: %v", err)
		}
	}
}
