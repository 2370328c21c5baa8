package models

import "time"

// ReserveSlotRequest запрос на временное удержание слота
type ReserveSlotRequest struct {
	EventTypeID int64
	SlotStart   time.Time // начало слота (UTC)
	SlotEnd     time.Time // конец слота (UTC)
	BookingUID  string    // бронирование, к которому присоединяется участник (для событий с местами)
}

// Reservation результат резервирования
// ID возвращается всегда; Admitted сообщает, было ли удержание действительно записано
type Reservation struct {
	ID       string
	Admitted bool
	Reason   string // причина решения политики вместимости (domain.Reason*)
}
