package slots

import "errors"

var (
	// ErrEventTypeNotFound возвращается, когда тип события не найден
	ErrEventTypeNotFound = errors.New("slots: event type not found")

	// ErrReservationFailed возвращается, когда запись удержания хотя бы для одного пользователя не удалась
	ErrReservationFailed = errors.New("slots: error reserving slot")

	// ErrHoldWriteTimeout возвращается, когда запись удержания не уложилась в таймаут
	ErrHoldWriteTimeout = errors.New("slots: hold write timeout")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("slots: internal error")
)
