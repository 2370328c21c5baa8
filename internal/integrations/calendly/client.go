package calendly

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
)

// Decryptor расшифровывает учетные данные аккаунта
type Decryptor interface {
	Decrypt(text string) (string, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент Calendly API для получения занятого времени
type Client struct {
	baseURL    string
	httpClient *http.Client
	decryptor  Decryptor
	log        Logger
}

// NewClient создает новый экземпляр клиента Calendly
func NewClient(baseURL string, timeout time.Duration, decryptor Decryptor, log Logger) *Client {
	if baseURL == "" {
		baseURL = domain.DefaultCalendlyBaseURL
	}
	if timeout <= 0 {
		timeout = domain.DefaultProviderHTTPTimeout
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		decryptor: decryptor,
		log:       log,
	}
}

// ListBusyTimes получает занятые интервалы аккаунта в окне [start, end]
func (c *Client) ListBusyTimes(ctx context.Context, account *domain.CalendarAccount, start, end time.Time) ([]domain.BusyInterval, error) {
	creds, err := c.credentials(account)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("user", creds.UserURI)
	params.Set("start_time", start.UTC().Format(time.RFC3339))
	params.Set("end_time", end.UTC().Format(time.RFC3339))

	reqURL := fmt.Sprintf("%s/user_busy_times?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Authorization", "Bearer "+creds.Password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var data busyTimesResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	intervals := make([]domain.BusyInterval, 0, len(data.Collection))
	for _, item := range data.Collection {
		interval, err := toBusyInterval(item)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, interval)
	}

	c.log.Info("Calendly: fetched %d busy intervals for account id=%d, window=%s..%s",
		len(intervals), account.ID, start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))
	return intervals, nil
}

// credentials расшифровывает учетные данные аккаунта
// Если в учетных данных нет userUri, используется ExternalRef аккаунта
func (c *Client) credentials(account *domain.CalendarAccount) (*Credentials, error) {
	raw, err := c.decryptor.Decrypt(account.EncryptedKey)
	if err != nil {
		return nil, fmt.Errorf("%w: account id=%d: %v", ErrInvalidCredentials, account.ID, err)
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return nil, fmt.Errorf("%w: account id=%d: %v", ErrInvalidCredentials, account.ID, err)
	}
	if creds.UserURI == "" {
		creds.UserURI = account.ExternalRef
	}
	if creds.UserURI == "" || creds.Password == "" {
		return nil, fmt.Errorf("%w: account id=%d: missing userUri or token", ErrInvalidCredentials, account.ID)
	}

	return &creds, nil
}

func toBusyInterval(item busyTime) (domain.BusyInterval, error) {
	start, err := time.Parse(time.RFC3339, item.StartTime)
	if err != nil {
		return domain.BusyInterval{}, fmt.Errorf("%w: invalid start_time %q", ErrInvalidResponse, item.StartTime)
	}
	end, err := time.Parse(time.RFC3339, item.EndTime)
	if err != nil {
		return domain.BusyInterval{}, fmt.Errorf("%w: invalid end_time %q", ErrInvalidResponse, item.EndTime)
	}

	source := ""
	if item.Event != nil {
		source = item.Event.URI
	}

	return domain.BusyInterval{Start: start, End: end, Source: source}, nil
}
