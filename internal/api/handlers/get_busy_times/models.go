package get_busy_times

import (
	"time"

	getBusyTimes "github.com/m04kA/SMC-SlotService/internal/usecase/get_busy_times"
)

const dateOnlyFormat = "2006-01-02"

// BusyInterval занятый интервал в ответе
type BusyInterval struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Source string `json:"source"`
}

// GetBusyTimesResponse HTTP ответ
type GetBusyTimesResponse struct {
	Busy           []BusyInterval `json:"busy"`
	MissingSources []string       `json:"missingSources"`
}

// ToUseCaseRequest формирует запрос use case
// Даты принимаются в RFC3339 или YYYY-MM-DD; dateTo без времени означает конец дня
func ToUseCaseRequest(userID int64, dateFrom, dateTo string) (*getBusyTimes.Request, error) {
	req := &getBusyTimes.Request{UserID: userID}

	if dateFrom != "" {
		from, _, err := parseDate(dateFrom)
		if err != nil {
			return nil, err
		}
		req.DateFrom = from
	}

	if dateTo != "" {
		to, dateOnly, err := parseDate(dateTo)
		if err != nil {
			return nil, err
		}
		if dateOnly {
			to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		req.DateTo = to
	}

	return req, nil
}

func parseDate(value string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), false, nil
	}
	t, err := time.Parse(dateOnlyFormat, value)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// FromUseCaseResponse конвертирует результат use case в HTTP ответ
func FromUseCaseResponse(res *getBusyTimes.Response) GetBusyTimesResponse {
	busy := make([]BusyInterval, 0, len(res.Busy))
	for _, b := range res.Busy {
		busy = append(busy, BusyInterval{
			Start:  b.Start.UTC().Format(time.RFC3339),
			End:    b.End.UTC().Format(time.RFC3339),
			Source: b.Source,
		})
	}

	missing := res.MissingSources
	if missing == nil {
		missing = []string{}
	}

	return GetBusyTimesResponse{Busy: busy, MissingSources: missing}
}
