package reserve_slot

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/service/slots/models"
)

// HeaderReservationUID заголовок с идентификатором резервирования клиента
const HeaderReservationUID = "X-Reservation-Uid"

// ReserveSlotRequest HTTP запрос на резервирование слота
type ReserveSlotRequest struct {
	EventTypeID      int64  `json:"eventTypeId"`
	SlotUtcStartDate string `json:"slotUtcStartDate"` // RFC3339
	SlotUtcEndDate   string `json:"slotUtcEndDate"`   // RFC3339
	BookingUID       string `json:"bookingUid,omitempty"`
}

// ReserveSlotResponse HTTP ответ
type ReserveSlotResponse struct {
	UID      string `json:"uid"`
	Admitted bool   `json:"admitted"`
	Reason   string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *ReserveSlotRequest) ToServiceRequest() (*models.ReserveSlotRequest, error) {
	start, err := time.Parse(time.RFC3339, r.SlotUtcStartDate)
	if err != nil {
		return nil, fmt.Errorf("slotUtcStartDate: %w", err)
	}
	end, err := time.Parse(time.RFC3339, r.SlotUtcEndDate)
	if err != nil {
		return nil, fmt.Errorf("slotUtcEndDate: %w", err)
	}

	return &models.ReserveSlotRequest{
		EventTypeID: r.EventTypeID,
		SlotStart:   start.UTC(),
		SlotEnd:     end.UTC(),
		BookingUID:  r.BookingUID,
	}, nil
}

// FromServiceResponse конвертирует результат сервиса в HTTP ответ
func FromServiceResponse(res *models.Reservation) ReserveSlotResponse {
	return ReserveSlotResponse{
		UID:      res.ID,
		Admitted: res.Admitted,
		Reason:   res.Reason,
	}
}
