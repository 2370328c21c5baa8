package get_busy_times

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
)

// CalendarAccountRepository интерфейс репозитория подключенных календарей
type CalendarAccountRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]*domain.CalendarAccount, error)
}

// BusyTimeFetcher интерфейс клиента внешнего календаря
// Возвращает занятые интервалы аккаунта в окне [start, end]
type BusyTimeFetcher interface {
	ListBusyTimes(ctx context.Context, account *domain.CalendarAccount, start, end time.Time) ([]domain.BusyInterval, error)
}

// HoldStore интерфейс чтения активных удержаний слотов
type HoldStore interface {
	ListActiveByUser(ctx context.Context, userID int64, from, to, now time.Time) ([]*domain.SlotHold, error)
}

// MetricsCollector интерфейс сбора метрик агрегации
type MetricsCollector interface {
	ProviderFetchFailed(provider string)
	AddBusyIntervals(n int)
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
