package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/booking"
	eventTypeRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/eventtype"
	"github.com/m04kA/SMC-SlotService/internal/queue"
	"github.com/m04kA/SMC-SlotService/internal/service/slots/models"
	"github.com/m04kA/SMC-SlotService/pkg/metrics"
)

// Config параметры резервирования слотов
type Config struct {
	HoldWriteTimeout time.Duration // ограничение на запись удержания для одного пользователя
	HoldTTL          time.Duration // время жизни удержания
}

// Service сервис временного удержания слотов
type Service struct {
	eventTypeRepo EventTypeRepository
	bookingRepo   BookingRepository
	holdStore     HoldStore
	publisher     EventPublisher
	metrics       MetricsCollector
	timeProvider  TimeProvider
	newID         func() string
	logger        Logger
	cfg           Config
}

// NewService создает новый экземпляр сервиса удержания слотов
func NewService(
	eventTypeRepo EventTypeRepository,
	bookingRepo BookingRepository,
	holdStore HoldStore,
	publisher EventPublisher,
	metricsCollector MetricsCollector,
	logger Logger,
	cfg Config,
) *Service {
	if cfg.HoldWriteTimeout <= 0 {
		cfg.HoldWriteTimeout = domain.DefaultHoldWriteTimeout
	}
	if cfg.HoldTTL <= 0 {
		cfg.HoldTTL = domain.DefaultHoldTTL
	}

	return &Service{
		eventTypeRepo: eventTypeRepo,
		bookingRepo:   bookingRepo,
		holdStore:     holdStore,
		publisher:     publisher,
		metrics:       metricsCollector,
		timeProvider:  &RealTimeProvider{},
		newID:         uuid.NewString,
		logger:        logger,
		cfg:           cfg,
	}
}

// Reserve временно удерживает слот за всеми пользователями типа события
//
// headerUID - идентификатор резервирования от клиента; если пуст, генерируется UUID v4.
// Если политика вместимости отказала, удержание не пишется и ошибка не возвращается:
// результат содержит Admitted=false и причину. Идентификатор возвращается в любом случае.
// Сбой или таймаут записи для любого пользователя откатывает все удержания резервирования.
func (s *Service) Reserve(ctx context.Context, req *models.ReserveSlotRequest, headerUID string) (*models.Reservation, error) {
	if err := validateReserveRequest(req); err != nil {
		s.logger.Warn("Reserve: validation failed: %v", err)
		return nil, err
	}

	uid := headerUID
	if uid == "" {
		uid = s.newID()
	}

	s.logger.Info("Reserve: uid=%s, eventType=%d, slot=%s..%s, bookingUid=%q",
		uid, req.EventTypeID, req.SlotStart.Format(time.RFC3339), req.SlotEnd.Format(time.RFC3339), req.BookingUID)

	now := s.timeProvider.Now()

	// 1. Чистим истекшие удержания (ошибка не критична)
	if purged, err := s.holdStore.DeleteExpired(ctx, now); err != nil {
		s.logger.Warn("Reserve: failed to purge expired holds: %v", err)
	} else if purged > 0 {
		s.logger.Info("Reserve: purged %d expired holds", purged)
	}

	// 2. Получаем тип события с местами и пользователями
	eventType, err := s.eventTypeRepo.GetWithSeats(ctx, req.EventTypeID)
	if err != nil {
		if errors.Is(err, eventTypeRepo.ErrEventTypeNotFound) {
			s.logger.Warn("Reserve: event type id=%d not found", req.EventTypeID)
			s.metrics.ObserveReservation(metrics.OutcomeNotFound)
			return nil, ErrEventTypeNotFound
		}
		s.logger.Error("Reserve: failed to get event type id=%d: %v", req.EventTypeID, err)
		return nil, fmt.Errorf("%w: failed to get event type: %v", ErrInternal, err)
	}

	// 3. Проверяем вместимость
	decision, err := s.admission(ctx, eventType, req.BookingUID)
	if err != nil {
		return nil, err
	}

	if !decision.Admit {
		s.logger.Info("Reserve: uid=%s not admitted for event type id=%d: %s", uid, eventType.ID, decision.Reason)
		s.metrics.ObserveReservation(metrics.OutcomeRejected)
		return &models.Reservation{ID: uid, Admitted: false, Reason: decision.Reason}, nil
	}

	// 4. Пишем удержания для всех пользователей параллельно
	holds := buildHolds(uid, eventType, req, now, s.cfg.HoldTTL)
	if len(holds) == 0 {
		s.logger.Warn("Reserve: event type id=%d has no assigned users, nothing to hold", eventType.ID)
	}

	started := time.Now()
	err = s.writeHolds(ctx, holds)
	s.metrics.ObserveHoldWrite(time.Since(started).Seconds())

	if err != nil {
		s.logger.Error("Reserve: failed to write holds uid=%s: %v", uid, err)
		s.rollback(ctx, uid, holds)
		s.metrics.ObserveReservation(metrics.OutcomeFailed)
		return nil, fmt.Errorf("%w: %w", ErrReservationFailed, err)
	}

	s.metrics.ObserveReservation(metrics.OutcomeAdmitted)
	s.publishHeld(ctx, uid, eventType, req, holds, now)

	s.logger.Info("Reserve: uid=%s held for %d users", uid, len(holds))
	return &models.Reservation{ID: uid, Admitted: true, Reason: decision.Reason}, nil
}

// Release удаляет все удержания резервирования
// Пустой uid и отсутствие удержаний не являются ошибкой; повторный вызов безопасен
func (s *Service) Release(ctx context.Context, uid string) error {
	if uid == "" {
		return nil
	}

	deleted, err := s.holdStore.DeleteByID(ctx, uid)
	if err != nil {
		s.logger.Error("Release: failed to delete holds uid=%s: %v", uid, err)
		return fmt.Errorf("%w: failed to delete holds: %v", ErrInternal, err)
	}

	if deleted == 0 {
		s.logger.Info("Release: no holds for uid=%s", uid)
		return nil
	}

	s.logger.Info("Release: deleted %d holds for uid=%s", deleted, uid)

	event := queue.SlotReleasedEvent{
		ReservationID: uid,
		HoldsDeleted:  deleted,
		ReleasedAt:    s.timeProvider.Now().UTC().Format(time.RFC3339),
	}
	if err := s.publisher.PublishSlotReleased(ctx, event); err != nil {
		s.logger.Warn("Release: failed to publish slot.released uid=%s: %v", uid, err)
	}

	return nil
}

// IsTeamEvent возвращает true, если тип события принадлежит команде
// nil или несуществующий тип события - false
func (s *Service) IsTeamEvent(ctx context.Context, eventTypeID *int64) (bool, error) {
	if eventTypeID == nil || *eventTypeID <= 0 {
		return false, nil
	}

	eventType, err := s.eventTypeRepo.GetByID(ctx, *eventTypeID)
	if err != nil {
		if errors.Is(err, eventTypeRepo.ErrEventTypeNotFound) {
			return false, nil
		}
		s.logger.Error("IsTeamEvent: failed to get event type id=%d: %v", *eventTypeID, err)
		return false, fmt.Errorf("%w: failed to get event type: %v", ErrInternal, err)
	}

	return eventType.IsTeamEvent(), nil
}

// admission применяет политику вместимости
// Для событий с ограничением мест число участников берется из бронирования bookingUID;
// отсутствие uid или бронирования означает "участники неизвестны"
func (s *Service) admission(ctx context.Context, eventType *domain.EventType, bookingUID string) (Decision, error) {
	if !eventType.HasSeatLimit() {
		return Admit(eventType.SeatsPerTimeSlot, nil), nil
	}

	var attendees *int
	if bookingUID != "" {
		count, err := s.bookingRepo.CountAttendees(ctx, bookingUID)
		switch {
		case err == nil:
			attendees = &count
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			s.logger.Info("Reserve: booking uid=%s not found, attendees unknown", bookingUID)
		default:
			s.logger.Error("Reserve: failed to count attendees for booking uid=%s: %v", bookingUID, err)
			return Decision{}, fmt.Errorf("%w: failed to count attendees: %v", ErrInternal, err)
		}
	}

	return Admit(eventType.SeatsPerTimeSlot, attendees), nil
}

// writeHolds пишет удержания параллельно, каждое с собственным таймаутом
// Первая ошибка отменяет контекст остальных записей
func (s *Service) writeHolds(ctx context.Context, holds []*domain.SlotHold) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, hold := range holds {
		hold := hold
		g.Go(func() error {
			err := withTimeout(gctx, s.cfg.HoldWriteTimeout, func(ctx context.Context) error {
				return s.holdStore.Upsert(ctx, hold)
			})
			if err != nil {
				return fmt.Errorf("user id=%d: %w", hold.UserID, err)
			}
			return nil
		})
	}

	return g.Wait()
}

// rollback удаляет удержания этой попытки, успевшие записаться до сбоя
// Удержания других слотов под тем же uid не затрагиваются.
// Выполняется на отдельном контексте: исходный может быть уже отменен
func (s *Service) rollback(ctx context.Context, uid string, holds []*domain.SlotHold) {
	rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.HoldWriteTimeout)
	defer cancel()

	deleted, err := s.holdStore.DeleteHolds(rbCtx, holds)
	if err != nil {
		s.logger.Error("Reserve: rollback failed for uid=%s: %v", uid, err)
		return
	}
	s.logger.Warn("Reserve: rolled back %d holds for uid=%s", deleted, uid)
}

func (s *Service) publishHeld(
	ctx context.Context,
	uid string,
	eventType *domain.EventType,
	req *models.ReserveSlotRequest,
	holds []*domain.SlotHold,
	now time.Time,
) {
	if len(holds) == 0 {
		return
	}

	userIDs := make([]int64, 0, len(holds))
	for _, hold := range holds {
		userIDs = append(userIDs, hold.UserID)
	}

	event := queue.SlotHeldEvent{
		ReservationID: uid,
		EventTypeID:   eventType.ID,
		UserIDs:       userIDs,
		SlotStart:     req.SlotStart.UTC().Format(time.RFC3339),
		SlotEnd:       req.SlotEnd.UTC().Format(time.RFC3339),
		IsSeatedEvent: eventType.IsSeated(),
		ReleaseAt:     now.Add(s.cfg.HoldTTL).UTC().Format(time.RFC3339),
	}
	if err := s.publisher.PublishSlotHeld(ctx, event); err != nil {
		s.logger.Warn("Reserve: failed to publish slot.held uid=%s: %v", uid, err)
	}
}

func buildHolds(
	uid string,
	eventType *domain.EventType,
	req *models.ReserveSlotRequest,
	now time.Time,
	ttl time.Duration,
) []*domain.SlotHold {
	holds := make([]*domain.SlotHold, 0, len(eventType.Users))
	for _, user := range eventType.Users {
		holds = append(holds, &domain.SlotHold{
			ID:            uid,
			UserID:        user.ID,
			EventTypeID:   eventType.ID,
			SlotStart:     req.SlotStart.UTC(),
			SlotEnd:       req.SlotEnd.UTC(),
			IsSeatedEvent: eventType.IsSeated(),
			CreatedAt:     now,
			ReleaseAt:     now.Add(ttl),
		})
	}
	return holds
}

func validateReserveRequest(req *models.ReserveSlotRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}
	if req.EventTypeID <= 0 {
		return fmt.Errorf("%w: eventTypeId must be positive", ErrInvalidInput)
	}
	if req.SlotStart.IsZero() || req.SlotEnd.IsZero() {
		return fmt.Errorf("%w: slot start and end are required", ErrInvalidInput)
	}
	if !req.SlotEnd.After(req.SlotStart) {
		return fmt.Errorf("%w: slot end must be after slot start", ErrInvalidInput)
	}
	return nil
}
