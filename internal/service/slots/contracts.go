package slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/internal/queue"
)

// EventTypeRepository интерфейс репозитория типов событий
type EventTypeRepository interface {
	GetWithSeats(ctx context.Context, id int64) (*domain.EventType, error)
	GetByID(ctx context.Context, id int64) (*domain.EventType, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CountAttendees(ctx context.Context, bookingUID string) (int, error)
}

// HoldStore интерфейс хранилища удержаний слотов
type HoldStore interface {
	Upsert(ctx context.Context, hold *domain.SlotHold) error
	DeleteByID(ctx context.Context, id string) (int64, error)
	DeleteHolds(ctx context.Context, holds []*domain.SlotHold) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// EventPublisher интерфейс публикации событий слотов
type EventPublisher interface {
	PublishSlotHeld(ctx context.Context, event queue.SlotHeldEvent) error
	PublishSlotReleased(ctx context.Context, event queue.SlotReleasedEvent) error
}

// MetricsCollector интерфейс сбора метрик резервирования
type MetricsCollector interface {
	ObserveReservation(outcome string)
	ObserveHoldWrite(seconds float64)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
