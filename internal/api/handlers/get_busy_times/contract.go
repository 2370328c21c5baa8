package get_busy_times

import (
	"context"

	getBusyTimes "github.com/m04kA/SMC-SlotService/internal/usecase/get_busy_times"
)

type GetBusyTimesUseCase interface {
	Execute(ctx context.Context, req *getBusyTimes.Request) (*getBusyTimes.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
