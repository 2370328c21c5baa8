package get_busy_times

import (
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
)

// Request запрос на получение занятых интервалов пользователя
type Request struct {
	UserID   int64
	DateFrom time.Time // нулевое значение - не задано
	DateTo   time.Time // нулевое значение - до конца текущего месяца
}

// Config параметры обхода окон
type Config struct {
	Lookahead  time.Duration // отступ от текущего момента до начала первого окна
	WindowDays int           // длина окна в днях (плюс остаток последнего дня)
}

// Response результат агрегации
type Response = domain.Availability

// holdsSource источник для MissingSources, если не удалось прочитать удержания
const holdsSource = "selected-slots"
