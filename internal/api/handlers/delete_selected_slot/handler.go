package delete_selected_slot

import (
	"net/http"

	"github.com/m04kA/SMC-SlotService/internal/api/handlers"
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

// Handle DELETE /api/v1/slots/selected-slot
// Query params: uid (optional, пустой uid - ничего не делаем)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	uid := r.URL.Query().Get("uid")

	if err := h.service.Release(r.Context(), uid); err != nil {
		h.logger.Error("DELETE /slots/selected-slot - Failed to release slot: uid=%s, error=%v", uid, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /slots/selected-slot - Slot released: uid=%s", uid)
	handlers.RespondJSON(w, http.StatusOK, DeleteSelectedSlotResponse{UID: uid})
}
