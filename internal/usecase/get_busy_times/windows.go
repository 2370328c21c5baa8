package get_busy_times

import "time"

// window интервал одного запроса к провайдерам
type window struct {
	Start time.Time
	End   time.Time
}

// buildWindows разбивает период [начало, горизонт) на окна провайдеров
//
// Начало: now+lookahead или dateFrom, если он позже.
// Конец окна: конец дня start+windowDays; следующее окно начинается с начала следующего дня.
// Горизонт: конец текущего месяца, либо dateTo; при заданном dateTo конец окна обрезается по нему.
func buildWindows(now time.Time, req *Request, cfg Config) []window {
	start := now.Add(cfg.Lookahead)
	if req.DateFrom.After(start) {
		start = req.DateFrom
	}

	horizon := endOfMonth(now)
	clamp := !req.DateTo.IsZero()
	if clamp {
		horizon = req.DateTo
	}

	var windows []window
	for start.Before(horizon) {
		end := endOfDay(start.AddDate(0, 0, cfg.WindowDays))
		if clamp && end.After(horizon) {
			end = horizon
		}
		windows = append(windows, window{Start: start, End: end})
		start = startOfDay(end.AddDate(0, 0, 1))
	}
	return windows
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func endOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m+1, 1, 0, 0, 0, 0, t.Location()).Add(-time.Nanosecond)
}
