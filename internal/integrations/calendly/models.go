package calendly

// Credentials расшифрованные учетные данные аккаунта Calendly
type Credentials struct {
	UserURI  string `json:"userUri"`
	Password string `json:"password"` // персональный токен доступа
}

// busyTimesResponse ответ GET /user_busy_times
type busyTimesResponse struct {
	Collection []busyTime `json:"collection"`
}

type busyTime struct {
	Type      string     `json:"type"`
	StartTime string     `json:"start_time"`
	EndTime   string     `json:"end_time"`
	Event     *eventLink `json:"event,omitempty"`
}

type eventLink struct {
	URI string `json:"uri"`
}
