package reserve_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotService/internal/api/handlers"
	"github.com/m04kA/SMC-SlotService/internal/service/slots"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты слота, ожидается RFC3339"
	msgInvalidInput       = "некорректные параметры слота"
	msgEventTypeNotFound  = "тип события не найден"
	msgReservationFailed  = "ошибка резервирования слота"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/slots/reserve
// Header X-Reservation-Uid (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ReserveSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots/reserve - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("POST /slots/reserve - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	headerUID := r.Header.Get(HeaderReservationUID)

	result, err := h.service.Reserve(r.Context(), serviceReq, headerUID)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("POST /slots/reserve - Invalid input: event_type_id=%d, error=%v", req.EventTypeID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, slots.ErrEventTypeNotFound):
			h.logger.Warn("POST /slots/reserve - Event type not found: event_type_id=%d", req.EventTypeID)
			handlers.RespondNotFound(w, msgEventTypeNotFound)

		case errors.Is(err, slots.ErrReservationFailed):
			h.logger.Error("POST /slots/reserve - Reservation failed: event_type_id=%d, error=%v", req.EventTypeID, err)
			handlers.RespondBadRequest(w, msgReservationFailed)

		default:
			h.logger.Error("POST /slots/reserve - Failed to reserve slot: event_type_id=%d, error=%v", req.EventTypeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots/reserve - Slot reserved: uid=%s, event_type_id=%d, admitted=%t",
		result.ID, req.EventTypeID, result.Admitted)
	handlers.RespondJSON(w, http.StatusOK, FromServiceResponse(result))
}
