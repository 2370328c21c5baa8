package delete_selected_slot

import "context"

type SlotService interface {
	Release(ctx context.Context, uid string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
