package is_team_event

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SlotService/internal/api/handlers"
)

const msgInvalidEventTypeID = "некорректный ID типа события"

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

// Handle GET /api/v1/slots/is-team-event
// Query params: eventTypeId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var eventTypeID *int64

	if raw := r.URL.Query().Get("eventTypeId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /slots/is-team-event - Invalid event type ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidEventTypeID)
			return
		}
		eventTypeID = &id
	}

	isTeam, err := h.service.IsTeamEvent(r.Context(), eventTypeID)
	if err != nil {
		h.logger.Error("GET /slots/is-team-event - Failed to check event type: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, IsTeamEventResponse{IsTeamEvent: isTeam})
}
