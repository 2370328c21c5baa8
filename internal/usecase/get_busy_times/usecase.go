package get_busy_times

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
)

// UseCase use case для получения занятых интервалов пользователя
// по всем подключенным календарям и внутренним удержаниям слотов
type UseCase struct {
	accountRepo  CalendarAccountRepository
	fetchers     map[domain.CalendarProvider]BusyTimeFetcher
	holdStore    HoldStore
	metrics      MetricsCollector
	timeProvider TimeProvider
	logger       Logger
	cfg          Config
}

// NewUseCase создает новый экземпляр use case
// holdStore может быть nil, тогда внутренние удержания не учитываются
func NewUseCase(
	accountRepo CalendarAccountRepository,
	fetchers map[domain.CalendarProvider]BusyTimeFetcher,
	holdStore HoldStore,
	metrics MetricsCollector,
	logger Logger,
	cfg Config,
) *UseCase {
	if cfg.Lookahead <= 0 {
		cfg.Lookahead = domain.DefaultLookahead
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = domain.DefaultWindowDays
	}

	return &UseCase{
		accountRepo:  accountRepo,
		fetchers:     fetchers,
		holdStore:    holdStore,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		cfg:          cfg,
	}
}

// Execute собирает занятые интервалы пользователя
//
// Ошибка провайдера не прерывает обход: окно пропускается, аккаунт попадает в MissingSources.
// Ошибкой является только невалидный запрос и сбой загрузки аккаунтов.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetBusyTimes: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("GetBusyTimes: user=%d, dateFrom=%s, dateTo=%s",
		req.UserID, formatOptional(req.DateFrom), formatOptional(req.DateTo))

	// 1. Получаем подключенные календари
	accounts, err := uc.accountRepo.ListByUser(ctx, req.UserID)
	if err != nil {
		uc.logger.Error("GetBusyTimes: failed to list calendar accounts user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: failed to list calendar accounts: %v", ErrInternal, err)
	}

	// 2. Строим окна
	now := uc.timeProvider.Now()
	windows := buildWindows(now, req, uc.cfg)

	result := &Response{Busy: []domain.BusyInterval{}, MissingSources: []string{}}
	if len(windows) == 0 {
		uc.logger.Info("GetBusyTimes: user=%d, empty period", req.UserID)
		return result, nil
	}

	missing := newSourceSet()

	// 3. Обходим окна последовательно, в каждом опрашиваем все аккаунты
	for _, w := range windows {
		for _, account := range accounts {
			busy, err := uc.fetch(ctx, account, w)
			if err != nil {
				uc.logger.Warn("GetBusyTimes: user=%d, source=%s, window=%s..%s: %v",
					req.UserID, account.SourceName(), w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339), err)
				uc.metrics.ProviderFetchFailed(string(account.Provider))
				missing.add(account.SourceName())
				continue
			}
			result.Busy = append(result.Busy, busy...)
		}
	}

	// 4. Добавляем внутренние удержания
	if uc.holdStore != nil {
		from, to := windows[0].Start, windows[len(windows)-1].End
		holds, err := uc.holdStore.ListActiveByUser(ctx, req.UserID, from, to, now)
		if err != nil {
			uc.logger.Warn("GetBusyTimes: user=%d, failed to list slot holds: %v", req.UserID, err)
			missing.add(holdsSource)
		} else {
			for _, hold := range holds {
				result.Busy = append(result.Busy, domain.BusyInterval{
					Start:  hold.SlotStart,
					End:    hold.SlotEnd,
					Source: domain.HoldSourcePrefix + hold.ID,
				})
			}
		}
	}

	result.MissingSources = missing.items
	uc.metrics.AddBusyIntervals(len(result.Busy))

	uc.logger.Info("GetBusyTimes: user=%d, windows=%d, accounts=%d, busy=%d, missing=%d",
		req.UserID, len(windows), len(accounts), len(result.Busy), len(result.MissingSources))
	return result, nil
}

func (uc *UseCase) fetch(ctx context.Context, account *domain.CalendarAccount, w window) ([]domain.BusyInterval, error) {
	fetcher, ok := uc.fetchers[account.Provider]
	if !ok {
		return nil, fmt.Errorf("no client for provider %q", account.Provider)
	}
	return fetcher.ListBusyTimes(ctx, account, w.Start, w.End)
}

// sourceSet упорядоченное множество источников
type sourceSet struct {
	seen  map[string]struct{}
	items []string
}

func newSourceSet() *sourceSet {
	return &sourceSet{seen: make(map[string]struct{}), items: []string{}}
}

func (s *sourceSet) add(source string) {
	if _, ok := s.seen[source]; ok {
		return
	}
	s.seen[source] = struct{}{}
	s.items = append(s.items, source)
}

func formatOptional(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.RFC3339)
}
