package is_team_event

import "context"

type SlotService interface {
	IsTeamEvent(ctx context.Context, eventTypeID *int64) (bool, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
