package googlecal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

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

// Client получает занятое время через Google Calendar FreeBusy API
// Учетные данные аккаунта - зашифрованный JSON oauth2.Token
type Client struct {
	endpoint   string // пусто = боевой endpoint
	timeout    time.Duration
	decryptor  Decryptor
	log        Logger
	httpClient func(ctx context.Context, token *oauth2.Token) *http.Client
}

// NewClient создает клиент Google Calendar
func NewClient(endpoint string, timeout time.Duration, decryptor Decryptor, log Logger) *Client {
	if timeout <= 0 {
		timeout = domain.DefaultProviderHTTPTimeout
	}
	return &Client{
		endpoint:  endpoint,
		timeout:   timeout,
		decryptor: decryptor,
		log:       log,
		httpClient: func(ctx context.Context, token *oauth2.Token) *http.Client {
			return oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
		},
	}
}

// ListBusyTimes получает занятые интервалы календаря аккаунта в окне [start, end]
func (c *Client) ListBusyTimes(ctx context.Context, account *domain.CalendarAccount, start, end time.Time) ([]domain.BusyInterval, error) {
	token, err := c.token(account)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	opts := []option.ClientOption{option.WithHTTPClient(c.httpClient(ctx, token))}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}

	service, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create calendar service: %v", ErrRequest, err)
	}

	calendarID := account.ExternalRef
	if calendarID == "" {
		calendarID = "primary"
	}

	resp, err := service.Freebusy.Query(&calendar.FreeBusyRequest{
		TimeMin: start.UTC().Format(time.RFC3339),
		TimeMax: end.UTC().Format(time.RFC3339),
		Items:   []*calendar.FreeBusyRequestItem{{Id: calendarID}},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: calendar=%s: %v", ErrRequest, calendarID, err)
	}

	cal, ok := resp.Calendars[calendarID]
	if !ok {
		return nil, fmt.Errorf("%w: calendar %s missing in response", ErrInvalidResponse, calendarID)
	}
	if len(cal.Errors) > 0 {
		return nil, fmt.Errorf("%w: calendar %s: %s", ErrInvalidResponse, calendarID, cal.Errors[0].Reason)
	}

	intervals := make([]domain.BusyInterval, 0, len(cal.Busy))
	for _, period := range cal.Busy {
		periodStart, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid start %q", ErrInvalidResponse, period.Start)
		}
		periodEnd, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid end %q", ErrInvalidResponse, period.End)
		}
		// FreeBusy не сообщает источник занятости
		intervals = append(intervals, domain.BusyInterval{Start: periodStart, End: periodEnd})
	}

	c.log.Info("Google: fetched %d busy intervals for account id=%d, calendar=%s", len(intervals), account.ID, calendarID)
	return intervals, nil
}

func (c *Client) token(account *domain.CalendarAccount) (*oauth2.Token, error) {
	raw, err := c.decryptor.Decrypt(account.EncryptedKey)
	if err != nil {
		return nil, fmt.Errorf("%w: account id=%d: %v", ErrInvalidCredentials, account.ID, err)
	}

	token := &oauth2.Token{}
	if err := json.Unmarshal([]byte(raw), token); err != nil {
		return nil, fmt.Errorf("%w: account id=%d: %v", ErrInvalidCredentials, account.ID, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: account id=%d: empty access token", ErrInvalidCredentials, account.ID)
	}

	return token, nil
}
