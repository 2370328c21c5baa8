package calendly

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("calendly client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от Calendly
	ErrInvalidResponse = errors.New("calendly client: invalid response")

	// ErrUnauthorized возвращается, когда токен аккаунта отклонен
	ErrUnauthorized = errors.New("calendly client: unauthorized")

	// ErrInvalidCredentials возвращается, когда учетные данные аккаунта не удалось расшифровать
	ErrInvalidCredentials = errors.New("calendly client: invalid account credentials")
)
