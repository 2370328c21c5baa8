package reserve_slot

import (
	"context"

	"github.com/m04kA/SMC-SlotService/internal/service/slots/models"
)

type SlotService interface {
	Reserve(ctx context.Context, req *models.ReserveSlotRequest, headerUID string) (*models.Reservation, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
