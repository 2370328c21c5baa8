package googlecal

import "errors"

var (
	// ErrInvalidCredentials возвращается, когда токен аккаунта не удалось расшифровать
	ErrInvalidCredentials = errors.New("googlecal client: invalid account credentials")

	// ErrRequest возвращается при ошибке запроса к Google Calendar API
	ErrRequest = errors.New("googlecal client: freebusy request failed")

	// ErrInvalidResponse возвращается при некорректном ответе API
	ErrInvalidResponse = errors.New("googlecal client: invalid response")
)
