package get_busy_times

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotService/internal/api/handlers"
	getBusyTimes "github.com/m04kA/SMC-SlotService/internal/usecase/get_busy_times"
)

const (
	msgInvalidUserID = "некорректный ID пользователя"
	msgInvalidDate   = "некорректный формат даты, ожидается RFC3339 или YYYY-MM-DD"
	msgInvalidRange  = "некорректный период"
)

type Handler struct {
	useCase GetBusyTimesUseCase
	logger  Logger
}

func NewHandler(useCase GetBusyTimesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/users/{userId}/busy-times
// Query params: dateFrom (optional), dateTo (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /users/{id}/busy-times - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	query := r.URL.Query()
	useCaseReq, err := ToUseCaseRequest(userID, query.Get("dateFrom"), query.Get("dateTo"))
	if err != nil {
		h.logger.Warn("GET /users/{id}/busy-times - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getBusyTimes.ErrInvalidInput):
			h.logger.Warn("GET /users/{id}/busy-times - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		default:
			h.logger.Error("GET /users/{id}/busy-times - Failed to get busy times: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	if result.IsPartial() {
		h.logger.Warn("GET /users/{id}/busy-times - Partial result: user_id=%d, missing=%v", userID, result.MissingSources)
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
